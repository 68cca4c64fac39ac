package store

import (
	"sync"
	"time"

	"cloudpanel/internal/models"
)

// OpStatus is the immediate answer to a lifecycle request. The visible
// isRunning flip happens only after the scheduled delay elapses.
type OpStatus int

const (
	// OpScheduled means the transition was accepted and is pending.
	OpScheduled OpStatus = iota
	// OpRejectedInFlight means another transition is already pending for
	// the instance. One transition at a time per instance.
	OpRejectedInFlight
	// OpNotFound means no instance has the given id.
	OpNotFound
)

// LifecycleOp is a handle to a pending start/stop/restart transition.
// Cancel aborts the flip before it lands; the handle is single-use.
type LifecycleOp struct {
	InstanceID string
	Kind       models.EventKind
	Ends       time.Time

	cancelOnce sync.Once
	cancel     chan struct{}
	done       chan struct{}
}

// Cancel aborts the pending transition. Returns false when the transition
// already completed or was canceled.
func (op *LifecycleOp) Cancel() bool {
	if op == nil {
		return false
	}
	select {
	case <-op.done:
		return false
	default:
	}
	op.cancelOnce.Do(func() { close(op.cancel) })
	return true
}

// Done exposes completion (flip applied or canceled) for callers and tests.
func (op *LifecycleOp) Done() <-chan struct{} { return op.done }

// cancelLocked is Cancel for callers already holding the store lock; it
// never blocks on the worker.
func (op *LifecycleOp) cancelLocked() {
	op.cancelOnce.Do(func() { close(op.cancel) })
}

// StartInstance schedules the instance to flip to running after the start
// delay. Returns immediately; a second call while a transition is pending
// is rejected.
func (s *ServersStore) StartInstance(id string) (*LifecycleOp, OpStatus) {
	return s.schedule(id, models.EventStart, s.startDelay)
}

// StopInstance schedules the instance to flip to stopped after the stop
// delay.
func (s *ServersStore) StopInstance(id string) (*LifecycleOp, OpStatus) {
	return s.schedule(id, models.EventStop, s.stopDelay)
}

// RestartInstance composes stop-then-start with half the delay for each
// step. The instance shows as stopped between the two flips.
func (s *ServersStore) RestartInstance(id string) (*LifecycleOp, OpStatus) {
	return s.schedule(id, models.EventRestart, s.stopDelay/2+s.startDelay/2)
}

// PendingOp returns the in-flight transition for an instance, if any.
func (s *ServersStore) PendingOp(id string) (*LifecycleOp, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	op, ok := s.pending[id]
	return op, ok
}

func (s *ServersStore) schedule(id string, kind models.EventKind, delay time.Duration) (*LifecycleOp, OpStatus) {
	s.mu.Lock()
	i := s.instanceIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, OpNotFound
	}
	if _, busy := s.pending[id]; busy {
		s.mu.Unlock()
		return nil, OpRejectedInFlight
	}
	op := &LifecycleOp{
		InstanceID: id,
		Kind:       kind,
		Ends:       s.now().Add(delay),
		cancel:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	s.pending[id] = op
	s.mu.Unlock()

	go s.runTransition(op, delay)
	return op, OpScheduled
}

// runTransition waits out the provisioning delay and applies the flip,
// unless canceled first. Restart applies an intermediate stop at the
// midpoint of the delay.
func (s *ServersStore) runTransition(op *LifecycleOp, delay time.Duration) {
	defer close(op.done)

	if op.Kind == models.EventRestart {
		if !s.waitOrCancel(op, delay/2) {
			s.finishCanceled(op)
			return
		}
		s.applyFlip(op.InstanceID, models.EventStop, false, "Restart: instance stopped")
	}
	remaining := delay
	if op.Kind == models.EventRestart {
		remaining = delay - delay/2
	}
	if !s.waitOrCancel(op, remaining) {
		s.finishCanceled(op)
		return
	}

	switch op.Kind {
	case models.EventStart:
		s.applyFlip(op.InstanceID, models.EventStart, true, "Instance started")
	case models.EventStop:
		s.applyFlip(op.InstanceID, models.EventStop, false, "Instance stopped")
	case models.EventRestart:
		s.applyFlip(op.InstanceID, models.EventRestart, true, "Instance restarted")
	}

	s.mu.Lock()
	if s.pending[op.InstanceID] == op {
		delete(s.pending, op.InstanceID)
	}
	s.mu.Unlock()
}

// waitOrCancel sleeps for d, returning false when the op is canceled first.
func (s *ServersStore) waitOrCancel(op *LifecycleOp, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-op.cancel:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-op.cancel:
		return false
	case <-timer.C:
		return true
	}
}

func (s *ServersStore) finishCanceled(op *LifecycleOp) {
	s.mu.Lock()
	if s.pending[op.InstanceID] == op {
		delete(s.pending, op.InstanceID)
	}
	if i := s.instanceIndexLocked(op.InstanceID); i >= 0 {
		s.appendEventLocked(i, op.Kind, models.EventWarning, "Transition canceled before completion")
		s.persistLocked()
	}
	s.mu.Unlock()
	s.notify()
}

func (s *ServersStore) applyFlip(id string, kind models.EventKind, running bool, msg string) {
	s.mu.Lock()
	i := s.instanceIndexLocked(id)
	if i < 0 {
		// Instance deleted while the transition was pending.
		s.mu.Unlock()
		return
	}
	s.instances[i].IsRunning = running
	s.appendEventLocked(i, kind, models.EventSuccess, msg)
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// FluctuateMetrics nudges each running instance's metrics by a small
// bounded random delta around the previous sample, clamped to [0,100] for
// percentage series. Storage drifts slowly upward within its total.
func (s *ServersStore) FluctuateMetrics() {
	s.mu.Lock()
	now := s.now()
	for i := range s.instances {
		if !s.instances[i].IsRunning {
			continue
		}
		m := &s.instances[i].Metrics
		s.nudgeSeries(&m.CPU, 6, now)
		s.nudgeSeries(&m.Memory, 4, now)
		s.nudgeSeries(&m.Network, 8, now)
		m.Storage.Used = clamp(m.Storage.Used+s.rand.Float64()*0.4-0.1, 0, m.Storage.Total)
		m.Storage.Available = m.Storage.Total - m.Storage.Used
	}
	s.persistLocked()
	s.mu.Unlock()
	s.notify()
}

// nudgeSeries applies one bounded step to a metric series and maintains
// the rolling history and average.
func (s *ServersStore) nudgeSeries(series *models.MetricSeries, spread float64, now time.Time) {
	delta := (s.rand.Float64()*2 - 1) * spread
	series.Current = clamp(series.Current+delta, 0, 100)
	series.History = append(series.History, models.MetricPoint{Timestamp: now, Value: series.Current})
	if len(series.History) > metricHistoryWindow {
		series.History = series.History[len(series.History)-metricHistoryWindow:]
	}
	sum := 0.0
	for _, p := range series.History {
		sum += p.Value
	}
	series.Average = sum / float64(len(series.History))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// StartSimulator launches the background ticker that fluctuates instance
// metrics. Calling it twice is a no-op while a simulator is running.
func (s *ServersStore) StartSimulator(interval time.Duration) {
	s.simMu.Lock()
	if s.simStop != nil {
		s.simMu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.simStop = stop
	s.simMu.Unlock()

	s.simWG.Add(1)
	go func() {
		defer s.simWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.FluctuateMetrics()
			case <-stop:
				return
			}
		}
	}()
}

// StopSimulator stops the metric ticker and waits for it to exit.
func (s *ServersStore) StopSimulator() {
	s.simMu.Lock()
	stop := s.simStop
	s.simStop = nil
	s.simMu.Unlock()
	if stop != nil {
		close(stop)
	}
	s.simWG.Wait()
}

// Shutdown cancels every pending transition and stops the simulator.
func (s *ServersStore) Shutdown() {
	s.StopSimulator()
	s.mu.Lock()
	ops := make([]*LifecycleOp, 0, len(s.pending))
	for _, op := range s.pending {
		ops = append(ops, op)
	}
	s.mu.Unlock()
	for _, op := range ops {
		op.Cancel()
		<-op.Done()
	}
}
