// Package projection derives live, filtered, sorted views of the store for
// individual screens. A projection recomputes synchronously whenever the
// store applies a change that could affect its result set, then tells its
// listeners; reads always reflect the store's current state, never a cached
// stale list.
package projection

import (
	"sort"
	"sync"

	"github.com/riya9927/balkanid-capstone/internal/client/models"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
)

// Predicate decides membership in a projection.
type Predicate func(models.FileRecord) bool

// Less orders two records within a projection.
type Less func(a, b models.FileRecord) bool

// Projection is one screen's live view. Safe for concurrent use.
type Projection struct {
	store *registry.Store
	pred  Predicate
	less  Less

	mu        sync.Mutex
	records   []models.FileRecord
	ids       map[string]struct{}
	listeners []func()

	unsubscribe func()
	closeOnce   sync.Once
}

// New builds a projection over store and subscribes it to changes. The
// initial result set is computed eagerly. Close releases the subscription.
func New(store *registry.Store, pred Predicate, less Less) *Projection {
	p := &Projection{
		store: store,
		pred:  pred,
		less:  less,
	}
	p.recompute()
	p.unsubscribe = store.Subscribe(p.onChange)
	return p
}

// Records returns the current derived list. The slice is a copy; callers may
// hold on to it.
func (p *Projection) Records() []models.FileRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.FileRecord(nil), p.records...)
}

// OnChange registers fn to run after every recompute that this projection
// performed. Registration order is preserved.
func (p *Projection) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Close detaches the projection from the store. Idempotent.
func (p *Projection) Close() {
	p.closeOnce.Do(p.unsubscribe)
}

// onChange recomputes when the changed record is, or was, part of the result
// set. Folder changes never affect file projections.
func (p *Projection) onChange(c registry.Change) {
	if c.Folder {
		return
	}

	p.mu.Lock()
	_, wasMember := p.ids[c.ID]
	p.mu.Unlock()

	if !wasMember && c.Kind == registry.ChangeUpsert {
		rec, ok := p.store.Get(c.ID)
		if !ok || !p.matches(rec) {
			return
		}
	} else if !wasMember {
		// Removal of a record that was never in this view.
		return
	}

	p.recompute()

	p.mu.Lock()
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func (p *Projection) matches(rec models.FileRecord) bool {
	return p.pred == nil || p.pred(rec)
}

func (p *Projection) recompute() {
	records := p.store.List(p.pred)
	if p.less != nil {
		sort.SliceStable(records, func(i, j int) bool {
			return p.less(records[i], records[j])
		})
	}

	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.ID] = struct{}{}
	}

	p.mu.Lock()
	p.records = records
	p.ids = ids
	p.mu.Unlock()
}
