// Package ui is the presentation glue: it owns the loaded store snapshot
// and the single current view, and renders views to a terminal.
package ui

import (
	"context"
	"sync"
	"time"

	"flowerstore-directory/models"
	"flowerstore-directory/services"
	"flowerstore-directory/storage"
	"flowerstore-directory/utils"
)

// LoadFailedMessage is shown when the dataset cannot be loaded.
const LoadFailedMessage = "無法載入資料 (unable to load data)"

// Directory holds the immutable store set and the current view.
type Directory struct {
	all      []*models.Store
	debounce *utils.Debouncer

	mu      sync.Mutex
	current models.View
}

// NewDirectory builds a Directory over stores and computes the initial
// unfiltered view.
func NewDirectory(stores []*models.Store, debounceDelay time.Duration) *Directory {
	d := &Directory{
		all:      stores,
		debounce: utils.NewDebouncer(debounceDelay),
	}
	d.current = BuildView(stores, models.Query{District: models.AllDistricts, SortBy: models.SortByRating})
	return d
}

// Load waits for the one-shot dataset load, normalizes it and builds a
// Directory. Any load error is returned as is; callers show
// LoadFailedMessage and stop.
func Load(ctx context.Context, loader *storage.DatasetLoader, normalizer *services.Normalizer, debounceDelay time.Duration) (*Directory, error) {
	select {
	case res := <-loader.Start(ctx):
		if res.Err != nil {
			return nil, res.Err
		}
		return NewDirectory(normalizer.Normalize(res.Records), debounceDelay), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BuildView runs filter → sort → group → summarize over stores.
func BuildView(stores []*models.Store, q models.Query) models.View {
	q.SortBy = services.ParseSortKey(string(q.SortBy))
	sorted := services.Sort(services.Filter(stores, q), q.SortBy)
	return models.View{
		Query:   q,
		Stores:  sorted,
		Groups:  services.Group(sorted),
		Summary: services.Summarize(sorted, stores),
	}
}

// All returns the full store set.
func (d *Directory) All() []*models.Store {
	return d.all
}

// Districts returns the district labels present in the data, in
// first-seen order.
func (d *Directory) Districts() []string {
	groups := services.Group(d.all)
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.District
	}
	return out
}

// Current returns the current view.
func (d *Directory) Current() models.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Apply recomputes the view for q and makes it current.
func (d *Directory) Apply(q models.Query) models.View {
	v := BuildView(d.all, q)
	d.mu.Lock()
	d.current = v
	d.mu.Unlock()
	return v
}

// SetKeyword schedules a debounced re-apply with a new keyword, keeping
// the other query fields. onView runs with the resulting view.
func (d *Directory) SetKeyword(keyword string, onView func(models.View)) {
	d.debounce.Trigger(func() {
		q := d.Current().Query
		q.Keyword = keyword
		v := d.Apply(q)
		if onView != nil {
			onView(v)
		}
	})
}

// FlushPending runs a scheduled keyword update right away.
func (d *Directory) FlushPending() {
	d.debounce.Flush()
}

// CancelPending drops a scheduled keyword update.
func (d *Directory) CancelPending() {
	d.debounce.Cancel()
}
