package models

import "time"

// AlertType is the display class of an alert.
type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertInfo     AlertType = "info"
	AlertSuccess  AlertType = "success"
)

// Alert is a system notification with severity 1..5. isActive=false means
// the alert has been resolved.
type Alert struct {
	ID             string    `json:"id"`
	Type           AlertType `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"is_read"`
	IsActive       bool      `json:"is_active"`
	Category       string    `json:"category"`
	Severity       int       `json:"severity"`
	ActionRequired bool      `json:"action_required,omitempty"`
	ActionTaken    bool      `json:"action_taken,omitempty"`
}

// AlertSettings is the singleton threshold/notification configuration.
// Thresholds are percentages except Cost, which is a monthly amount.
type AlertSettings struct {
	CPUThreshold     float64 `json:"cpu_threshold" yaml:"cpu_threshold"`
	MemoryThreshold  float64 `json:"memory_threshold" yaml:"memory_threshold"`
	StorageThreshold float64 `json:"storage_threshold" yaml:"storage_threshold"`
	CostThreshold    float64 `json:"cost_threshold" yaml:"cost_threshold"`
	NetworkThreshold float64 `json:"network_threshold" yaml:"network_threshold"`
	EmailEnabled     bool    `json:"email_enabled" yaml:"email_enabled"`
	PushEnabled      bool    `json:"push_enabled" yaml:"push_enabled"`
}

// AlertSettingsPatch carries a partial settings update; nil fields are
// left unchanged by the merge.
type AlertSettingsPatch struct {
	CPUThreshold     *float64 `json:"cpu_threshold,omitempty"`
	MemoryThreshold  *float64 `json:"memory_threshold,omitempty"`
	StorageThreshold *float64 `json:"storage_threshold,omitempty"`
	CostThreshold    *float64 `json:"cost_threshold,omitempty"`
	NetworkThreshold *float64 `json:"network_threshold,omitempty"`
	EmailEnabled     *bool    `json:"email_enabled,omitempty"`
	PushEnabled      *bool    `json:"push_enabled,omitempty"`
}

// AlertMetrics holds running-total counters. Counters are never decremented
// on deletion; they are lifetime totals, not live aggregates.
type AlertMetrics struct {
	TotalAlerts    int `json:"total_alerts"`
	CriticalAlerts int `json:"critical_alerts"`
	WarningAlerts  int `json:"warning_alerts"`
	ResolvedAlerts int `json:"resolved_alerts"`
}

// AlertMetricsPatch is a partial counter update, shallow-merged.
type AlertMetricsPatch struct {
	TotalAlerts    *int `json:"total_alerts,omitempty"`
	CriticalAlerts *int `json:"critical_alerts,omitempty"`
	WarningAlerts  *int `json:"warning_alerts,omitempty"`
	ResolvedAlerts *int `json:"resolved_alerts,omitempty"`
}
