package engine

import (
	"context"
	"io"
	"net/http/httptest"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/previewdeck/internal/clock"
	"github.com/danieljhkim/previewdeck/internal/config"
	"github.com/danieljhkim/previewdeck/internal/preview"
)

var testTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type notification struct {
	kind      string
	batchID   string
	actionIDs []string
	reason    string
}

// recordingNotifier records every notification it receives.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (r *recordingNotifier) add(n notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

func (r *recordingNotifier) OnApplied(batchID string, actionIDs []string) {
	r.add(notification{kind: "applied", batchID: batchID, actionIDs: actionIDs})
}

func (r *recordingNotifier) OnDismissed(batchID string) {
	r.add(notification{kind: "dismissed", batchID: batchID})
}

func (r *recordingNotifier) OnUndone(batchID string) {
	r.add(notification{kind: "undone", batchID: batchID})
}

func (r *recordingNotifier) OnApplyFailed(batchID string, reason string) {
	r.add(notification{kind: "apply_failed", batchID: batchID, reason: reason})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.events...)
}

func (r *recordingNotifier) kinds() []string {
	var out []string
	for _, n := range r.all() {
		out = append(out, n.kind+":"+n.batchID)
	}
	return out
}

type harness struct {
	m     *Manager
	clock *clock.FakeClock
	notes *recordingNotifier
	ctx   context.Context
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	settings := config.DefaultSettings()
	settings.GraceTick = 0

	h := &harness{
		clock: clock.NewFakeClock(testTime),
		notes: &recordingNotifier{},
		ctx:   context.Background(),
	}
	base := []Option{WithClock(h.clock), WithNotifier(h.notes), WithSettings(settings)}
	h.m = New(append(base, opts...)...)
	t.Cleanup(h.m.Close)
	return h
}

func (h *harness) add(t *testing.T, b *preview.Batch) {
	t.Helper()
	if err := h.m.AddBatch(h.ctx, b); err != nil {
		t.Fatalf("AddBatch(%s) error = %v", b.ID, err)
	}
}

// mustApply applies a batch and fails the test on error.
func (h *harness) mustApply(t *testing.T, batchID string, actionIDs ...string) *ApplyResult {
	t.Helper()
	res, err := h.apply(batchID, actionIDs...)
	if err != nil {
		t.Fatalf("Apply(%s) error = %v", batchID, err)
	}
	return res
}

func (h *harness) mustUndo(t *testing.T, batchID string) *UndoResult {
	t.Helper()
	res, err := h.m.Undo(h.ctx, batchID)
	if err != nil {
		t.Fatalf("Undo(%s) error = %v", batchID, err)
	}
	return res
}

func (h *harness) apply(batchID string, actionIDs ...string) (*ApplyResult, error) {
	return h.m.Apply(h.ctx, &ApplyRequest{BatchID: batchID, ActionIDs: actionIDs})
}

func conflict(id string, sev preview.Severity) preview.Conflict {
	return preview.Conflict{
		ID:              id,
		Severity:        sev,
		Type:            preview.ConflictTimeOverlap,
		Message:         "overlaps " + id,
		ConflictingItem: preview.ConflictingItem{ID: "existing", Name: "Existing"},
	}
}

func action(id string, conflicts ...preview.Conflict) preview.Action {
	return preview.Action{
		ID:         id,
		Type:       preview.ActionAdd,
		EntityType: preview.EntityTripActivity,
		Item:       preview.Item{ID: "item-" + id, Name: "Item " + id},
		Conflicts:  conflicts,
		Timestamp:  testTime,
	}
}

func batch(id string, actions ...preview.Action) *preview.Batch {
	return &preview.Batch{
		ID:        id,
		AgentName: "Concierge",
		Summary:   "summary " + id,
		Actions:   actions,
		Status:    preview.StatusPending,
		CreatedAt: testTime,
	}
}

func equal(t *testing.T, what string, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func sorted(ids []string) []string {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

// wantMetrics fails unless every line appears in the scraped metrics.
func wantMetrics(t *testing.T, m *Manager, lines ...string) {
	t.Helper()
	body := scrape(t, m)
	for _, line := range lines {
		if !strings.Contains(body, line) {
			t.Errorf("metrics missing %s", line)
		}
	}
}

func activeIDs(m *Manager) []string {
	var ids []string
	for _, b := range m.State().ActiveBatches {
		ids = append(ids, b.ID)
	}
	return ids
}

func stackIDs(batches []preview.Batch) []string {
	var ids []string
	for _, b := range batches {
		ids = append(ids, b.ID)
	}
	return ids
}

func scrape(t *testing.T, m *Manager) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Metrics().Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	return string(body)
}
