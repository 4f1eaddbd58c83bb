package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/kolmedia/talentsync/internal/model"
	"github.com/kolmedia/talentsync/internal/pricing"
)

// Memory is an in-memory twin of the mongo backend used by phase tests. It
// mirrors the (nil, nil) not-found convention and the partial-insert
// reporting of the real store.
type Memory struct {
	mu sync.RWMutex

	sourceProjects map[string]model.SourceProject
	sourceCollabs  []model.SourceCollaboration
	sourceTalents  map[string]model.SourceTalent
	effectRecords  []model.SourceEffectRecord
	dailyStats     []model.SourceDailyStat

	targetProjects map[string]model.TargetProject
	targetCollabs  []model.TargetCollaboration
	targetTalents  []model.TargetTalent
	customers      map[string][]pricing.Config
	runs           []model.RunEntry

	// FailCollabInsertAfter makes InsertCollaborations fail after N rows
	// when > 0, for exercising partial-batch reporting.
	FailCollabInsertAfter int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sourceProjects: map[string]model.SourceProject{},
		sourceTalents:  map[string]model.SourceTalent{},
		targetProjects: map[string]model.TargetProject{},
		customers:      map[string][]pricing.Config{},
	}
}

// Source returns the source facade.
func (m *Memory) Source() Source { return (*memSource)(m) }

// Target returns the target facade.
func (m *Memory) Target() Target { return (*memTarget)(m) }

// Customers returns the pricing configuration reader.
func (m *Memory) Customers() CustomerConfigs { return (*memCustomers)(m) }

// Runs returns the run log.
func (m *Memory) Runs() RunLog { return (*memRunLog)(m) }

// --- seed helpers ---

func (m *Memory) SeedSourceProject(p model.SourceProject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceProjects[p.ID] = p
}

func (m *Memory) SeedSourceCollaboration(c model.SourceCollaboration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceCollabs = append(m.sourceCollabs, c)
}

func (m *Memory) SeedSourceTalent(t model.SourceTalent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sourceTalents[t.ID] = t
}

func (m *Memory) SeedEffectRecord(r model.SourceEffectRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effectRecords = append(m.effectRecords, r)
}

func (m *Memory) SeedDailyStat(s model.SourceDailyStat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyStats = append(m.dailyStats, s)
}

func (m *Memory) SeedTargetTalent(t model.TargetTalent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targetTalents = append(m.targetTalents, t)
}

func (m *Memory) SeedCustomerConfigs(customerID string, configs []pricing.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[customerID] = configs
}

// --- Source facade ---

type memSource Memory

func (s *memSource) ListProjects(ctx context.Context) ([]model.SourceProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.SourceProject, 0, len(s.sourceProjects))
	for _, p := range s.sourceProjects {
		out = append(out, p)
	}
	return out, nil
}

func (s *memSource) GetProject(ctx context.Context, id string) (*model.SourceProject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.sourceProjects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *memSource) ListCollaborations(ctx context.Context, projectID string) ([]model.SourceCollaboration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SourceCollaboration
	for _, c := range s.sourceCollabs {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memSource) GetTalent(ctx context.Context, id string) (*model.SourceTalent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.sourceTalents[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *memSource) ListEffectRecords(ctx context.Context, projectID string) ([]model.SourceEffectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SourceEffectRecord
	for _, r := range s.effectRecords {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memSource) ListDailyStats(ctx context.Context, projectID string) ([]model.SourceDailyStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.SourceDailyStat
	for _, d := range s.dailyStats {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *memSource) SumCollaborationAmounts(ctx context.Context, projectID string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, c := range s.sourceCollabs {
		if c.ProjectID == projectID {
			total += c.Amount
		}
	}
	return total, nil
}

// --- Target facade ---

type memTarget Memory

func (t *memTarget) GetProject(ctx context.Context, id string) (*model.TargetProject, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if p, ok := t.targetProjects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (t *memTarget) FindProjectBySourceID(ctx context.Context, sourceProjectID string) (*model.TargetProject, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.targetProjects {
		if p.MigratedFrom != nil && p.MigratedFrom.SourceProjectID == sourceProjectID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (t *memTarget) FindProjectByName(ctx context.Context, name string) (*model.TargetProject, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.targetProjects {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (t *memTarget) InsertProject(ctx context.Context, p *model.TargetProject) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.targetProjects[p.ID]; ok {
		return eris.Errorf("store: duplicate target project %s", p.ID)
	}
	t.targetProjects[p.ID] = *p
	return nil
}

func (t *memTarget) SetProjectTracking(ctx context.Context, projectID string, tc *model.TrackingConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.targetProjects[projectID]
	if !ok {
		return eris.Errorf("store: target project %s not found", projectID)
	}
	p.Tracking = tc
	t.targetProjects[projectID] = p
	return nil
}

func (t *memTarget) DeleteProject(ctx context.Context, id string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.targetProjects[id]; !ok {
		return 0, nil
	}
	delete(t.targetProjects, id)
	return 1, nil
}

func (t *memTarget) ListTalentsByAccountIDs(ctx context.Context, accountIDs []string) ([]model.TargetTalent, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	want := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = true
	}
	var out []model.TargetTalent
	for _, tal := range t.targetTalents {
		if want[tal.PlatformAccountID] {
			out = append(out, tal)
		}
	}
	return out, nil
}

func (t *memTarget) InsertCollaborations(ctx context.Context, collabs []model.TargetCollaboration) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, c := range collabs {
		if t.FailCollabInsertAfter > 0 && i >= t.FailCollabInsertAfter {
			return i, eris.New("store: insert collaborations: write failed")
		}
		t.targetCollabs = append(t.targetCollabs, c)
	}
	return len(collabs), nil
}

func (t *memTarget) ListCollaborations(ctx context.Context, projectID string) ([]model.TargetCollaboration, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []model.TargetCollaboration
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (t *memTarget) GetCollaboration(ctx context.Context, id string) (*model.TargetCollaboration, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.targetCollabs {
		if t.targetCollabs[i].ID == id {
			c := t.targetCollabs[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (t *memTarget) FindCollaborationByVideoID(ctx context.Context, projectID, videoID string) (*model.TargetCollaboration, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if videoID == "" {
		return nil, nil
	}
	for i := range t.targetCollabs {
		c := t.targetCollabs[i]
		if c.ProjectID == projectID && c.VideoID == videoID {
			return &c, nil
		}
	}
	return nil, nil
}

func (t *memTarget) FindCollaborationBySourceID(ctx context.Context, projectID, sourceCollabID string) (*model.TargetCollaboration, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if sourceCollabID == "" {
		return nil, nil
	}
	for i := range t.targetCollabs {
		c := t.targetCollabs[i]
		if c.ProjectID == projectID && c.MigratedFrom != nil && c.MigratedFrom.SourceCollabID == sourceCollabID {
			return &c, nil
		}
	}
	return nil, nil
}

func (t *memTarget) SetCollaborationEffectData(ctx context.Context, collabID string, data *model.EffectData) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.targetCollabs {
		if t.targetCollabs[i].ID == collabID {
			t.targetCollabs[i].EffectData = data
			return nil
		}
	}
	return eris.Errorf("store: collaboration %s not found", collabID)
}

func (t *memTarget) SetCollaborationDailyStats(ctx context.Context, collabID string, stats []model.DailyStat) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.targetCollabs {
		if t.targetCollabs[i].ID == collabID {
			t.targetCollabs[i].DailyStats = stats
			return nil
		}
	}
	return eris.Errorf("store: collaboration %s not found", collabID)
}

func (t *memTarget) DeleteCollaborationsByProject(ctx context.Context, projectID string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var kept []model.TargetCollaboration
	var deleted int64
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	t.targetCollabs = kept
	return deleted, nil
}

func (t *memTarget) CountCollaborations(ctx context.Context, projectID string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (t *memTarget) CountCollaborationsWithEffects(ctx context.Context, projectID string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID && c.EffectData != nil {
			n++
		}
	}
	return n, nil
}

func (t *memTarget) SumCollaborationAmounts(ctx context.Context, projectID string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var total int64
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID {
			total += c.Amount
		}
	}
	return total, nil
}

func (t *memTarget) CountDailyStatEntries(ctx context.Context, projectID string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var n int64
	for _, c := range t.targetCollabs {
		if c.ProjectID == projectID {
			n += int64(len(c.DailyStats))
		}
	}
	return n, nil
}

// --- CustomerConfigs facade ---

type memCustomers Memory

func (c *memCustomers) PricingConfigs(ctx context.Context, customerID string) ([]pricing.Config, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.customers[customerID], nil
}

// --- RunLog facade ---

type memRunLog Memory

func (r *memRunLog) Start(ctx context.Context, sourceProjectID, phase string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := model.RunEntry{
		ID:              uuid.NewString(),
		SourceProjectID: sourceProjectID,
		Phase:           phase,
		Status:          model.RunRunning,
		StartedAt:       time.Now().UTC(),
	}
	r.runs = append(r.runs, entry)
	return entry.ID, nil
}

func (r *memRunLog) Complete(ctx context.Context, runID string, counts map[string]int64) error {
	return r.finish(runID, model.RunComplete, counts, "")
}

func (r *memRunLog) Fail(ctx context.Context, runID string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	return r.finish(runID, model.RunFailed, nil, msg)
}

func (r *memRunLog) finish(runID, status string, counts map[string]int64, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].ID == runID {
			now := time.Now().UTC()
			r.runs[i].Status = status
			r.runs[i].CompletedAt = &now
			r.runs[i].Counts = counts
			r.runs[i].Error = errMsg
			return nil
		}
	}
	return eris.Errorf("store: run %s not found", runID)
}

func (r *memRunLog) History(ctx context.Context, sourceProjectID string) ([]model.RunEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.RunEntry
	for _, e := range r.runs {
		if e.SourceProjectID == sourceProjectID {
			out = append(out, e)
		}
	}
	return out, nil
}
