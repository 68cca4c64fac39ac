package monitor

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"cloudpanel/internal/models"
	"cloudpanel/internal/store"
	"cloudpanel/internal/utils"
)

// Sweeper periodically compares running-instance metrics against the
// alert thresholds and emits alerts for breaches.
type Sweeper struct {
	cron    *cron.Cron
	servers *store.ServersStore
	alerts  *store.AlertsStore
	log     *utils.Logger
}

func NewSweeper(servers *store.ServersStore, alerts *store.AlertsStore, log *utils.Logger) *Sweeper {
	return &Sweeper{cron: cron.New(), servers: servers, alerts: alerts, log: log}
}

// Start registers the sweep on the given cron schedule.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Writef("Alert sweep started with schedule %q", schedule)
	return nil
}

// Stop halts the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	s.log.Write("Alert sweep stopped")
}

// Sweep runs one evaluation pass. Disabled notification toggles suppress
// emission entirely; thresholds come from the alerts store settings.
func (s *Sweeper) Sweep() {
	settings := s.alerts.Settings()
	if !settings.EmailEnabled && !settings.PushEnabled {
		return
	}
	for _, inst := range s.servers.Instances() {
		if !inst.IsRunning {
			continue
		}
		s.check(inst.Name, "cpu", inst.Metrics.CPU.Current, settings.CPUThreshold)
		s.check(inst.Name, "memory", inst.Metrics.Memory.Current, settings.MemoryThreshold)
		s.check(inst.Name, "network", inst.Metrics.Network.Current, settings.NetworkThreshold)
		if inst.Metrics.Storage.Total > 0 {
			usedPct := inst.Metrics.Storage.Used / inst.Metrics.Storage.Total * 100
			s.check(inst.Name, "storage", usedPct, settings.StorageThreshold)
		}
	}
}

// check emits a warning at the threshold and escalates to critical ten
// points above it.
func (s *Sweeper) check(instance, resource string, value, threshold float64) {
	if threshold <= 0 || value < threshold {
		return
	}
	typ := models.AlertWarning
	severity := 3
	if value >= threshold+10 {
		typ = models.AlertCritical
		severity = 5
	}
	s.alerts.AddAlert(store.AlertInput{
		Type:           typ,
		Title:          fmt.Sprintf("%s usage high on %s", resource, instance),
		Message:        fmt.Sprintf("%s at %.1f%% (threshold %.0f%%)", resource, value, threshold),
		Category:       "performance",
		Severity:       severity,
		ActionRequired: typ == models.AlertCritical,
	})
}
