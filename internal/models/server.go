package models

import "time"

// ServerSpecification is a top-level requirement category in the static
// catalog (e.g. CPU), optionally with selectable sub-options. Reference
// data only; never user-mutable.
type ServerSpecification struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	SubOptions []SubOption `json:"sub_options,omitempty"`
}

// SubOption refines a specification category.
type SubOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PredefinedServer is a catalog plan scored against user requirements.
type PredefinedServer struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Specifications []string `json:"specifications"`
	Price          float64  `json:"price"`
	Features       []string `json:"features"`
	RecommendedFor string   `json:"recommended_for"`
}

// ScoredPlan is a plan copy annotated with its match percentage at query
// time. The underlying catalog entry is never mutated.
type ScoredPlan struct {
	PredefinedServer
	MatchPercentage float64 `json:"match_percentage"`
}

// UserServerRequirements is the single current requirement selection,
// overwritten wholesale and cleared explicitly. Referenced ids are not
// validated against the catalog.
type UserServerRequirements struct {
	SelectedSpecs    []string `json:"selected_specs"`
	SelectedSubSpecs []string `json:"selected_sub_specs"`
	AdditionalNotes  string   `json:"additional_notes"`
}

// MetricPoint is a single sample in an instance metric history.
type MetricPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries tracks one resource dimension for an instance: the latest
// sample, a rolling average, the critical threshold, and recent history.
type MetricSeries struct {
	Current  float64       `json:"current"`
	Average  float64       `json:"average"`
	Critical float64       `json:"critical"`
	History  []MetricPoint `json:"history"`
}

// StorageMetrics tracks disk usage in GB for an instance.
type StorageMetrics struct {
	Used      float64 `json:"used"`
	Available float64 `json:"available"`
	Total     float64 `json:"total"`
}

// InstanceMetrics is the full simulated metrics block for an instance.
type InstanceMetrics struct {
	CPU     MetricSeries   `json:"cpu"`
	Memory  MetricSeries   `json:"memory"`
	Network MetricSeries   `json:"network"`
	Storage StorageMetrics `json:"storage"`
}

// EventStatus is the outcome recorded on a lifecycle event.
type EventStatus string

const (
	EventSuccess EventStatus = "success"
	EventWarning EventStatus = "warning"
	EventError   EventStatus = "error"
)

// EventKind names the lifecycle action that produced an event.
type EventKind string

const (
	EventStart       EventKind = "start"
	EventStop        EventKind = "stop"
	EventRestart     EventKind = "restart"
	EventUpdate      EventKind = "update"
	EventMaintenance EventKind = "maintenance"
)

// ServerEvent is one entry in an instance's lifecycle log. Events are
// independently deletable; removing one never affects instance status.
type ServerEvent struct {
	ID        string      `json:"id"`
	Kind      EventKind   `json:"kind"`
	Status    EventStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// ServerInstance is a user-created server with simulated runtime state.
// Status flips happen only after the scheduled provisioning delay elapses.
type ServerInstance struct {
	ID        string          `json:"id"`
	PlanID    string          `json:"plan_id"`
	Name      string          `json:"name"`
	IsRunning bool            `json:"is_running"`
	IPAddress string          `json:"ip_address"`
	Metrics   InstanceMetrics `json:"metrics"`
	Events    []ServerEvent   `json:"events"`
	CreatedAt time.Time       `json:"created_at"`
}
