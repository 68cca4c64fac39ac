// Package monitor hosts the panel's background samplers: host telemetry
// for the admin health view and the scheduled alert threshold sweep.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

const telemetryInterval = 5 * time.Second

// HostTelemetry captures panel-host resource usage sampled for the admin
// system-health view. This is the panel's own health, distinct from the
// simulated instance metrics.
type HostTelemetry struct {
	CPUPercent    float64   `json:"cpu_percent"`
	MemoryPercent float64   `json:"memory_percent"`
	MemoryUsed    uint64    `json:"memory_used_bytes"`
	MemoryTotal   uint64    `json:"memory_total_bytes"`
	DiskPercent   float64   `json:"disk_percent"`
	DiskUsed      uint64    `json:"disk_used_bytes"`
	DiskTotal     uint64    `json:"disk_total_bytes"`
	SampledAt     time.Time `json:"sampled_at"`
}

// Telemetry samples host metrics on a fixed interval.
type Telemetry struct {
	mu       sync.RWMutex
	snapshot *HostTelemetry
	stop     chan struct{}
	wg       sync.WaitGroup
}

func NewTelemetry() *Telemetry {
	return &Telemetry{}
}

// Start launches the background sampler. Starting twice is a no-op.
func (t *Telemetry) Start() {
	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(telemetryInterval)
		defer ticker.Stop()
		ctx := context.Background()
		t.refresh(ctx)
		for {
			select {
			case <-ticker.C:
				t.refresh(ctx)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the sampler and waits for shutdown.
func (t *Telemetry) Stop() {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop != nil {
		close(stop)
	}
	t.wg.Wait()
}

// Snapshot returns the latest sample, or nil before the first refresh.
func (t *Telemetry) Snapshot() *HostTelemetry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.snapshot == nil {
		return nil
	}
	cp := *t.snapshot
	return &cp
}

func (t *Telemetry) refresh(ctx context.Context) {
	snap := &HostTelemetry{SampledAt: time.Now()}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = clampPercent(percents[0])
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil && vm != nil {
		snap.MemoryPercent = clampPercent(vm.UsedPercent)
		snap.MemoryUsed = vm.Used
		snap.MemoryTotal = vm.Total
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil && du != nil {
		snap.DiskPercent = clampPercent(du.UsedPercent)
		snap.DiskUsed = du.Used
		snap.DiskTotal = du.Total
	}

	t.mu.Lock()
	t.snapshot = snap
	t.mu.Unlock()
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
