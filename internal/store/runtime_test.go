package store

import (
	"testing"
	"time"

	"cloudpanel/internal/models"
)

func waitDone(t *testing.T, op *LifecycleOp) {
	t.Helper()
	select {
	case <-op.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("transition did not finish in time")
	}
}

func TestStartInstanceFlipsAfterDelay(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")

	op, status := s.StartInstance(inst.ID)
	if status != OpScheduled {
		t.Fatalf("start: %v", status)
	}
	// Transition is asynchronous; the flip has not landed yet.
	if got, _ := s.InstanceByID(inst.ID); got.IsRunning {
		t.Fatalf("instance must stay stopped until the delay elapses")
	}
	if op.Ends.Before(time.Now().Add(-time.Second)) {
		t.Fatalf("ends timestamp in the past: %v", op.Ends)
	}

	waitDone(t, op)
	after, _ := s.InstanceByID(inst.ID)
	if !after.IsRunning {
		t.Fatalf("instance should be running after the delay")
	}
	last := after.Events[len(after.Events)-1]
	if last.Kind != models.EventStart || last.Status != models.EventSuccess {
		t.Fatalf("expected a successful start event, got %+v", last)
	}
	if _, busy := s.PendingOp(inst.ID); busy {
		t.Fatalf("pending entry must clear after completion")
	}
}

func TestStopInstance(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")
	op, _ := s.StartInstance(inst.ID)
	waitDone(t, op)

	op, status := s.StopInstance(inst.ID)
	if status != OpScheduled {
		t.Fatalf("stop: %v", status)
	}
	waitDone(t, op)
	after, _ := s.InstanceByID(inst.ID)
	if after.IsRunning {
		t.Fatalf("instance should be stopped")
	}
}

func TestRestartStopsThenStarts(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")
	op, _ := s.StartInstance(inst.ID)
	waitDone(t, op)

	op, status := s.RestartInstance(inst.ID)
	if status != OpScheduled {
		t.Fatalf("restart: %v", status)
	}
	waitDone(t, op)
	after, _ := s.InstanceByID(inst.ID)
	if !after.IsRunning {
		t.Fatalf("instance should be running after restart")
	}
	// The intermediate stop and the final restart both leave events.
	var sawStop, sawRestart bool
	for _, ev := range after.Events {
		if ev.Kind == models.EventStop {
			sawStop = true
		}
		if ev.Kind == models.EventRestart {
			sawRestart = true
		}
	}
	if !sawStop || !sawRestart {
		t.Fatalf("expected stop and restart events, got %+v", after.Events)
	}
}

func TestSecondTransitionRejectedWhileInFlight(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")

	op, status := s.StartInstance(inst.ID)
	if status != OpScheduled {
		t.Fatalf("start: %v", status)
	}
	if _, status := s.StopInstance(inst.ID); status != OpRejectedInFlight {
		t.Fatalf("expected in-flight rejection, got %v", status)
	}
	if _, status := s.StartInstance(inst.ID); status != OpRejectedInFlight {
		t.Fatalf("expected in-flight rejection for repeat start, got %v", status)
	}

	waitDone(t, op)
	// With the slot free a new transition is accepted again.
	op2, status := s.StopInstance(inst.ID)
	if status != OpScheduled {
		t.Fatalf("post-completion stop: %v", status)
	}
	waitDone(t, op2)
}

func TestTransitionOnUnknownInstance(t *testing.T) {
	s := newTestServers(t)
	if _, status := s.StartInstance("missing"); status != OpNotFound {
		t.Fatalf("expected OpNotFound, got %v", status)
	}
}

func TestCancelPendingTransition(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")

	op, _ := s.StartInstance(inst.ID)
	if !op.Cancel() {
		t.Fatalf("cancel of a pending transition must succeed")
	}
	waitDone(t, op)

	after, _ := s.InstanceByID(inst.ID)
	if after.IsRunning {
		t.Fatalf("canceled start must not flip the instance")
	}
	last := after.Events[len(after.Events)-1]
	if last.Status != models.EventWarning {
		t.Fatalf("expected a warning event for the canceled transition, got %+v", last)
	}
	if _, busy := s.PendingOp(inst.ID); busy {
		t.Fatalf("pending entry must clear after cancel")
	}
	if op.Cancel() {
		t.Fatalf("second cancel must report false")
	}
}

func TestDeleteInstanceCancelsPending(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")

	op, _ := s.StartInstance(inst.ID)
	if got := s.DeleteInstance(inst.ID); got != Updated {
		t.Fatalf("delete: %v", got)
	}
	waitDone(t, op)
	if _, ok := s.InstanceByID(inst.ID); ok {
		t.Fatalf("instance should be gone")
	}
}

func TestFluctuateMetrics(t *testing.T) {
	s := newTestServers(t)
	running, _ := s.CreateInstance("plan-starter", "on")
	stopped, _ := s.CreateInstance("plan-starter", "off")
	op, _ := s.StartInstance(running.ID)
	waitDone(t, op)

	for i := 0; i < metricHistoryWindow+10; i++ {
		s.FluctuateMetrics()
	}

	run, _ := s.InstanceByID(running.ID)
	if len(run.Metrics.CPU.History) != metricHistoryWindow {
		t.Fatalf("history window = %d, want %d", len(run.Metrics.CPU.History), metricHistoryWindow)
	}
	for _, p := range run.Metrics.CPU.History {
		if p.Value < 0 || p.Value > 100 {
			t.Fatalf("cpu sample out of range: %v", p.Value)
		}
	}
	if run.Metrics.Storage.Used < 0 || run.Metrics.Storage.Used > run.Metrics.Storage.Total {
		t.Fatalf("storage used out of range: %+v", run.Metrics.Storage)
	}
	if got := run.Metrics.Storage.Used + run.Metrics.Storage.Available; got != run.Metrics.Storage.Total {
		t.Fatalf("storage does not sum to total: %v", got)
	}
	if run.Metrics.CPU.Average < 0 || run.Metrics.CPU.Average > 100 {
		t.Fatalf("average out of range: %v", run.Metrics.CPU.Average)
	}

	idle, _ := s.InstanceByID(stopped.ID)
	if len(idle.Metrics.CPU.History) != 0 {
		t.Fatalf("stopped instances must not accumulate samples")
	}
}

func TestOnChangeFiresOnFlip(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")

	fired := make(chan struct{}, 8)
	s.SetOnChange(func() { fired <- struct{}{} })

	op, _ := s.StartInstance(inst.ID)
	waitDone(t, op)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("change hook did not fire after flip")
	}
}

func TestSimulatorStartStop(t *testing.T) {
	s := newTestServers(t)
	inst, _ := s.CreateInstance("plan-starter", "w")
	op, _ := s.StartInstance(inst.ID)
	waitDone(t, op)

	s.StartSimulator(5 * time.Millisecond)
	s.StartSimulator(5 * time.Millisecond) // second call is a no-op
	time.Sleep(40 * time.Millisecond)
	s.StopSimulator()

	after, _ := s.InstanceByID(inst.ID)
	if len(after.Metrics.CPU.History) == 0 {
		t.Fatalf("simulator produced no samples")
	}
	n := len(after.Metrics.CPU.History)
	time.Sleep(30 * time.Millisecond)
	final, _ := s.InstanceByID(inst.ID)
	if len(final.Metrics.CPU.History) != n {
		t.Fatalf("simulator kept ticking after stop")
	}
}

func TestShutdownCancelsPending(t *testing.T) {
	s, err := NewServersStore(nil, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	inst, _ := s.CreateInstance("plan-starter", "w")
	if _, status := s.StartInstance(inst.ID); status != OpScheduled {
		t.Fatalf("start: %v", status)
	}

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("shutdown blocked on pending transition")
	}
	if got, _ := s.InstanceByID(inst.ID); got.IsRunning {
		t.Fatalf("canceled start must leave the instance stopped")
	}
}
