package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
)

func newAlertFixture(t *testing.T) (*store.AlertsStore, *gin.Engine) {
	t.Helper()
	alerts, err := store.NewAlertsStore(nil)
	if err != nil {
		t.Fatalf("alerts store: %v", err)
	}
	h := NewAlertHandlers(alerts)
	r := gin.New()
	r.GET("/alerts", h.List)
	r.POST("/alerts", h.Add)
	r.POST("/alerts/:id/toggle-read", h.ToggleRead)
	r.POST("/alerts/:id/resolve", h.Resolve)
	r.DELETE("/alerts/:id", h.Delete)
	r.POST("/alerts/generate-mock", h.GenerateMock)
	r.POST("/alerts/reset", h.Reset)
	r.GET("/alerts/settings", h.GetSettings)
	r.PUT("/alerts/settings", h.UpdateSettings)
	return alerts, r
}

func TestAddAlertEndpoint(t *testing.T) {
	_, r := newAlertFixture(t)

	w := postJSON(t, r, "/alerts", `{"type":"critical","title":"CPU","message":"high load","category":"performance","severity":5,"action_required":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}
	var a models.Alert
	if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Type != models.AlertCritical || !a.IsActive || a.IsRead {
		t.Fatalf("unexpected alert: %+v", a)
	}

	// Severity outside 1..5 and unknown types are rejected.
	w = postJSON(t, r, "/alerts", `{"type":"critical","title":"x","message":"y","category":"z","severity":9}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad severity status = %d, want 422", w.Code)
	}
	w = postJSON(t, r, "/alerts", `{"type":"disaster","title":"x","message":"y","category":"z","severity":3}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad type status = %d, want 422", w.Code)
	}
}

func TestAlertListEndpoint(t *testing.T) {
	alerts, r := newAlertFixture(t)
	alerts.GenerateMockAlerts()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/alerts", nil))
	var body struct {
		Alerts  []models.Alert      `json:"alerts"`
		Metrics models.AlertMetrics `json:"metrics"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Alerts) != 6 || body.Metrics.TotalAlerts != 6 {
		t.Fatalf("expected 6 mock alerts with matching counters, got %d / %d", len(body.Alerts), body.Metrics.TotalAlerts)
	}
}

func TestAlertActionsEndpoints(t *testing.T) {
	alerts, r := newAlertFixture(t)
	a := alerts.AddAlert(store.AlertInput{Type: models.AlertWarning, Title: "w", Severity: 3})

	w := postJSON(t, r, "/alerts/"+a.ID+"/toggle-read", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", w.Code)
	}
	got, _ := alerts.AlertByID(a.ID)
	if !got.IsRead {
		t.Fatalf("toggle did not mark read")
	}

	w = postJSON(t, r, "/alerts/"+a.ID+"/resolve", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status = %d", w.Code)
	}
	if got := w.Header().Get("X-Toast-Type"); got != "success" {
		t.Fatalf("toast type = %q", got)
	}

	req := httptest.NewRequest(http.MethodDelete, "/alerts/"+a.ID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := postJSON(t, r, "/alerts/missing/resolve", ``); w.Code != http.StatusNotFound {
		t.Fatalf("resolve missing status = %d, want 404", w.Code)
	}
}

func TestAlertSettingsEndpoints(t *testing.T) {
	_, r := newAlertFixture(t)

	w := putJSON(t, r, "/alerts/settings", `{"cpu_threshold": 60, "email_enabled": false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update settings status = %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/alerts/settings", nil))
	var s models.AlertSettings
	if err := json.Unmarshal(w2.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.CPUThreshold != 60 || s.EmailEnabled {
		t.Fatalf("patch not applied: %+v", s)
	}
	// Fields absent from the patch keep their defaults.
	if s.MemoryThreshold != store.DefaultAlertSettings().MemoryThreshold {
		t.Fatalf("untouched setting changed: %+v", s)
	}
}

func TestAlertResetEndpoint(t *testing.T) {
	alerts, r := newAlertFixture(t)
	alerts.GenerateMockAlerts()

	w := postJSON(t, r, "/alerts/reset", ``)
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d", w.Code)
	}
	if len(alerts.Alerts()) != 0 || alerts.Metrics().TotalAlerts != 0 {
		t.Fatalf("reset did not clear state")
	}
}
