package store

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cloudpanel/internal/models"
)

// maxRecommendations caps how many scored plans a recommendation returns.
const maxRecommendations = 3

// metricHistoryWindow bounds how many samples an instance metric keeps.
const metricHistoryWindow = 50

// serversSnapshot is the persisted shape of the servers store. Pending
// lifecycle operations are runtime-only and never persisted.
type serversSnapshot struct {
	Requirements *models.UserServerRequirements `json:"requirements"`
	Instances    []models.ServerInstance        `json:"instances"`
}

// ServersStore holds the plan/specification catalog access, the user's
// current requirement selection, and the simulated server instances.
type ServersStore struct {
	mu           sync.RWMutex
	requirements *models.UserServerRequirements
	instances    []models.ServerInstance
	pending      map[string]*LifecycleOp
	snaps        Snapshotter

	// Provisioning delays for the simulated start/stop transitions.
	startDelay time.Duration
	stopDelay  time.Duration

	now  func() time.Time
	rand *rand.Rand

	simMu   sync.Mutex
	simStop chan struct{}
	simWG   sync.WaitGroup

	// onChange is invoked after instance state changes (lifecycle flips,
	// metric ticks) so the host can broadcast snapshots. May be nil.
	onChange func()
}

// NewServersStore rehydrates from the servers slot when a snapshotter is
// provided. Delays control how long start/stop transitions stay pending.
func NewServersStore(snaps Snapshotter, startDelay, stopDelay time.Duration) (*ServersStore, error) {
	s := &ServersStore{
		snaps:      snaps,
		startDelay: startDelay,
		stopDelay:  stopDelay,
		pending:    make(map[string]*LifecycleOp),
		now:        time.Now,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if snaps != nil {
		var snap serversSnapshot
		if err := snaps.Load(SlotServers, &snap); err != nil {
			return nil, err
		}
		s.requirements = snap.Requirements
		s.instances = snap.Instances
	}
	return s, nil
}

// SetOnChange installs the change hook used for live broadcasts.
func (s *ServersStore) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *ServersStore) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (s *ServersStore) persistLocked() {
	if s.snaps == nil {
		return
	}
	_ = s.snaps.Save(SlotServers, serversSnapshot{Requirements: s.requirements, Instances: s.instances})
}

// RecommendServers scores every predefined plan against the selected
// specification ids and returns the top matches, best first.
//
// Only top-level specification ids participate in the score; sub-option
// ids are accepted from the caller but deliberately not counted. An empty
// selection yields an empty result rather than dividing by zero.
func (s *ServersStore) RecommendServers(selectedSpecs, selectedSubSpecs []string) []models.ScoredPlan {
	return scorePlans(planCatalog, selectedSpecs)
}

// scorePlans implements the matching algorithm over an explicit plan list.
func scorePlans(plans []models.PredefinedServer, selectedSpecs []string) []models.ScoredPlan {
	if len(selectedSpecs) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(selectedSpecs))
	for _, id := range selectedSpecs {
		selected[id] = struct{}{}
	}
	var scored []models.ScoredPlan
	for _, plan := range plans {
		matching := 0
		for _, specID := range plan.Specifications {
			if _, ok := selected[specID]; ok {
				matching++
			}
		}
		pct := float64(matching) / float64(len(selectedSpecs)) * 100
		if pct <= 0 {
			continue
		}
		scored = append(scored, models.ScoredPlan{PredefinedServer: plan, MatchPercentage: pct})
	}
	// Stable sort keeps catalog order on ties.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchPercentage > scored[j].MatchPercentage
	})
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}
	return scored
}

// SetRequirements replaces the current selection wholesale. Referenced ids
// are not validated against the catalog.
func (s *ServersStore) SetRequirements(req models.UserServerRequirements) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := req
	s.requirements = &cp
	s.persistLocked()
}

// ClearRequirements drops the current selection.
func (s *ServersStore) ClearRequirements() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requirements = nil
	s.persistLocked()
}

// Requirements returns a copy of the current selection, or nil.
func (s *ServersStore) Requirements() *models.UserServerRequirements {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.requirements == nil {
		return nil
	}
	cp := *s.requirements
	return &cp
}

// CreateInstance provisions a stopped instance from a plan. The plan must
// exist in the catalog; the instance gets a private address and a zeroed
// metrics block with per-plan critical thresholds.
func (s *ServersStore) CreateInstance(planID, name string) (models.ServerInstance, bool) {
	plan, ok := PlanByID(planID)
	if !ok {
		return models.ServerInstance{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	inst := models.ServerInstance{
		ID:        uuid.NewString(),
		PlanID:    plan.ID,
		Name:      name,
		IsRunning: false,
		IPAddress: fmt.Sprintf("10.0.%d.%d", s.rand.Intn(255), 1+s.rand.Intn(254)),
		Metrics: models.InstanceMetrics{
			CPU:     models.MetricSeries{Critical: 90},
			Memory:  models.MetricSeries{Critical: 90},
			Network: models.MetricSeries{Critical: 85},
			Storage: models.StorageMetrics{Used: 12, Available: 68, Total: 80},
		},
		CreatedAt: now,
	}
	inst.Events = append(inst.Events, models.ServerEvent{
		ID:        uuid.NewString(),
		Kind:      models.EventUpdate,
		Status:    models.EventSuccess,
		Message:   "Instance created from plan " + plan.Name,
		Timestamp: now,
	})
	s.instances = append(s.instances, inst)
	s.persistLocked()
	return inst, true
}

// DeleteInstance removes an instance and cancels any pending transition.
func (s *ServersStore) DeleteInstance(id string) Outcome {
	s.mu.Lock()
	if op, ok := s.pending[id]; ok {
		op.cancelLocked()
		delete(s.pending, id)
	}
	for i := range s.instances {
		if s.instances[i].ID == id {
			s.instances = append(s.instances[:i], s.instances[i+1:]...)
			s.persistLocked()
			s.mu.Unlock()
			s.notify()
			return Updated
		}
	}
	s.mu.Unlock()
	return NotFound
}

// Instances returns a deep-enough snapshot copy of all instances.
func (s *ServersStore) Instances() []models.ServerInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ServerInstance, len(s.instances))
	for i, inst := range s.instances {
		out[i] = copyInstance(inst)
	}
	return out
}

// InstanceByID returns a copy of an instance.
func (s *ServersStore) InstanceByID(id string) (models.ServerInstance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inst := range s.instances {
		if inst.ID == id {
			return copyInstance(inst), true
		}
	}
	return models.ServerInstance{}, false
}

func (s *ServersStore) instanceIndexLocked(id string) int {
	for i := range s.instances {
		if s.instances[i].ID == id {
			return i
		}
	}
	return -1
}

func copyInstance(inst models.ServerInstance) models.ServerInstance {
	cp := inst
	cp.Events = append([]models.ServerEvent(nil), inst.Events...)
	cp.Metrics.CPU.History = append([]models.MetricPoint(nil), inst.Metrics.CPU.History...)
	cp.Metrics.Memory.History = append([]models.MetricPoint(nil), inst.Metrics.Memory.History...)
	cp.Metrics.Network.History = append([]models.MetricPoint(nil), inst.Metrics.Network.History...)
	return cp
}

// DeleteEvent removes one event from an instance's log. Instance status is
// untouched.
func (s *ServersStore) DeleteEvent(instanceID, eventID string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.instanceIndexLocked(instanceID)
	if i < 0 {
		return NotFound
	}
	events := s.instances[i].Events
	for j := range events {
		if events[j].ID == eventID {
			s.instances[i].Events = append(events[:j], events[j+1:]...)
			s.persistLocked()
			return Updated
		}
	}
	return NotFound
}

// appendEventLocked records a lifecycle event on an instance.
func (s *ServersStore) appendEventLocked(i int, kind models.EventKind, status models.EventStatus, msg string) {
	s.instances[i].Events = append(s.instances[i].Events, models.ServerEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    status,
		Message:   msg,
		Timestamp: s.now(),
	})
}
