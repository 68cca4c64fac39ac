package store

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"cloudpanel/internal/models"
)

// alertsSnapshot is the persisted shape of the alerts store.
type alertsSnapshot struct {
	Alerts   []models.Alert       `json:"alerts"`
	Settings models.AlertSettings `json:"settings"`
	Metrics  models.AlertMetrics  `json:"metrics"`
}

// DefaultAlertSettings are the thresholds used until an admin changes them.
func DefaultAlertSettings() models.AlertSettings {
	return models.AlertSettings{
		CPUThreshold:     80,
		MemoryThreshold:  85,
		StorageThreshold: 90,
		CostThreshold:    500,
		NetworkThreshold: 75,
		EmailEnabled:     true,
		PushEnabled:      true,
	}
}

// AlertInput carries the caller-supplied fields for a new alert.
type AlertInput struct {
	Type           models.AlertType
	Title          string
	Message        string
	Category       string
	Severity       int
	ActionRequired bool
}

// AlertsStore holds generated alerts, the threshold settings singleton,
// and running-total counters.
//
// Two behaviors are preserved from the original system on purpose:
// counters bucket every non-critical type under warnings, and repeated
// resolves of the same alert each increment the resolved counter.
type AlertsStore struct {
	mu       sync.RWMutex
	alerts   []models.Alert
	settings models.AlertSettings
	metrics  models.AlertMetrics
	snaps    Snapshotter
	now      func() time.Time
}

// NewAlertsStore rehydrates from the alerts slot when a snapshotter is
// provided; a fresh store starts with default settings.
func NewAlertsStore(snaps Snapshotter) (*AlertsStore, error) {
	s := &AlertsStore{snaps: snaps, settings: DefaultAlertSettings(), now: time.Now}
	if snaps != nil {
		snap := alertsSnapshot{Settings: s.settings}
		if err := snaps.Load(SlotAlerts, &snap); err != nil {
			return nil, err
		}
		s.alerts = snap.Alerts
		s.settings = snap.Settings
		s.metrics = snap.Metrics
	}
	return s, nil
}

func (s *AlertsStore) persistLocked() {
	if s.snaps == nil {
		return
	}
	_ = s.snaps.Save(SlotAlerts, alertsSnapshot{Alerts: s.alerts, Settings: s.settings, Metrics: s.metrics})
}

// newAlertID combines wall-clock millis, the nanosecond remainder, and a
// random suffix so rapid sequential calls still get distinct ids.
func newAlertID(now time.Time) string {
	return fmt.Sprintf("%d-%d-%04d", now.UnixMilli(), now.UnixNano()%1e6, rand.Intn(10000))
}

func (s *AlertsStore) addLocked(in AlertInput) models.Alert {
	now := s.now()
	a := models.Alert{
		ID:             newAlertID(now),
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		Timestamp:      now,
		IsRead:         false,
		IsActive:       true,
		Category:       in.Category,
		Severity:       in.Severity,
		ActionRequired: in.ActionRequired,
	}
	s.alerts = append(s.alerts, a)
	s.metrics.TotalAlerts++
	if in.Type == models.AlertCritical {
		s.metrics.CriticalAlerts++
	} else {
		// info and success bucket under warnings as well
		s.metrics.WarningAlerts++
	}
	return a
}

// AddAlert appends a new unread, active alert and bumps the counters.
func (s *AlertsStore) AddAlert(in AlertInput) models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.addLocked(in)
	s.persistLocked()
	return a
}

// ToggleRead flips the read flag on an alert.
func (s *AlertsStore) ToggleRead(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].IsRead = !s.alerts[i].IsRead
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// MarkAsRead flips the read flag, same as ToggleRead. The original exposes
// both entry points with identical toggle behavior; both are kept.
func (s *AlertsStore) MarkAsRead(id string) Outcome {
	return s.ToggleRead(id)
}

// MarkAsResolved deactivates an alert and records the action. The resolved
// counter increments on every call, including repeats on an already
// resolved alert.
func (s *AlertsStore) MarkAsResolved(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].IsActive = false
			s.alerts[i].ActionTaken = true
			s.metrics.ResolvedAlerts++
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// DeleteAlert removes an alert. Counters stay where they are; they are
// lifetime totals, not recomputed aggregates.
func (s *AlertsStore) DeleteAlert(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// mockAlertCatalog is the fixed set GenerateMockAlerts emits: 2 critical,
// 2 warning, 1 info, 1 success.
var mockAlertCatalog = []AlertInput{
	{Type: models.AlertCritical, Title: "CPU usage critical", Message: "CPU usage exceeded 95% on web-server-01", Category: "performance", Severity: 5, ActionRequired: true},
	{Type: models.AlertCritical, Title: "Storage almost full", Message: "Disk usage reached 92% on db-server-01", Category: "storage", Severity: 4, ActionRequired: true},
	{Type: models.AlertWarning, Title: "Memory pressure", Message: "Memory usage above 85% for 10 minutes", Category: "performance", Severity: 3},
	{Type: models.AlertWarning, Title: "Monthly cost rising", Message: "Projected cost is trending 15% over budget", Category: "billing", Severity: 3},
	{Type: models.AlertInfo, Title: "Maintenance scheduled", Message: "Planned maintenance window on Sunday 02:00 UTC", Category: "maintenance", Severity: 2},
	{Type: models.AlertSuccess, Title: "Backup completed", Message: "Nightly backup finished without errors", Category: "backup", Severity: 1},
}

// GenerateMockAlerts clears all existing alerts and counters, then appends
// the fixed six-alert catalog with fresh ids and timestamps. Counters
// rebuild per AddAlert, so the run always ends with totalAlerts == 6
// regardless of prior state.
func (s *AlertsStore) GenerateMockAlerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
	s.metrics = models.AlertMetrics{}
	out := make([]models.Alert, 0, len(mockAlertCatalog))
	for _, in := range mockAlertCatalog {
		out = append(out, s.addLocked(in))
	}
	s.persistLocked()
	return out
}

// ResetStore clears alerts and zeroes the counters. Settings are untouched.
func (s *AlertsStore) ResetStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
	s.metrics = models.AlertMetrics{}
	s.persistLocked()
}

// UpdateSettings shallow-merges a partial settings update.
func (s *AlertsStore) UpdateSettings(p models.AlertSettingsPatch) models.AlertSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CPUThreshold != nil {
		s.settings.CPUThreshold = *p.CPUThreshold
	}
	if p.MemoryThreshold != nil {
		s.settings.MemoryThreshold = *p.MemoryThreshold
	}
	if p.StorageThreshold != nil {
		s.settings.StorageThreshold = *p.StorageThreshold
	}
	if p.CostThreshold != nil {
		s.settings.CostThreshold = *p.CostThreshold
	}
	if p.NetworkThreshold != nil {
		s.settings.NetworkThreshold = *p.NetworkThreshold
	}
	if p.EmailEnabled != nil {
		s.settings.EmailEnabled = *p.EmailEnabled
	}
	if p.PushEnabled != nil {
		s.settings.PushEnabled = *p.PushEnabled
	}
	s.persistLocked()
	return s.settings
}

// UpdateMetrics shallow-merges a partial counter update.
func (s *AlertsStore) UpdateMetrics(p models.AlertMetricsPatch) models.AlertMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.TotalAlerts != nil {
		s.metrics.TotalAlerts = *p.TotalAlerts
	}
	if p.CriticalAlerts != nil {
		s.metrics.CriticalAlerts = *p.CriticalAlerts
	}
	if p.WarningAlerts != nil {
		s.metrics.WarningAlerts = *p.WarningAlerts
	}
	if p.ResolvedAlerts != nil {
		s.metrics.ResolvedAlerts = *p.ResolvedAlerts
	}
	s.persistLocked()
	return s.metrics
}

// Alerts returns a snapshot copy of all alerts in insertion order.
func (s *AlertsStore) Alerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// AlertByID returns a copy of an alert.
func (s *AlertsStore) AlertByID(id string) (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Alert{}, false
}

// Settings returns the current threshold settings.
func (s *AlertsStore) Settings() models.AlertSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Metrics returns the current counters.
func (s *AlertsStore) Metrics() models.AlertMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}
