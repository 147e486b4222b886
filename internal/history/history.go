// Package history keeps a bounded, most-recent-first list of analysis
// results on the local machine.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/mithrel/marketeer/pkg/api"
)

// DefaultCapacity matches the number of recent requests the UI keeps.
const DefaultCapacity = 10

var ErrNotFound = errors.New("not found")

// Item is one stored result. ID is the request id, or a generated one when
// the service returned none.
type Item struct {
	ID      string             `json:"id"`
	Result  api.AnalysisResult `json:"result"`
	AddedAt time.Time          `json:"added_at"`
}

// Store is a capacity-bounded history. Adding past capacity evicts the
// oldest items; adding an ID that already exists replaces it and moves it
// to the front.
type Store interface {
	Add(ctx context.Context, r api.AnalysisResult) (Item, error)
	List(ctx context.Context, limit int) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Delete(ctx context.Context, id string) error
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// Open returns a Store for dsn: "mem://" or "sqlite://<path>".
func Open(ctx context.Context, dsn string, capacity int) (Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	switch {
	case dsn == "" || strings.HasPrefix(dsn, "mem://"):
		return NewMem(capacity), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		s, err := openSQLite(ctx, dsn, capacity)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported history dsn %q", dsn)
	}
}

func newItem(r api.AnalysisResult, now time.Time) Item {
	id := strings.TrimSpace(r.RequestID)
	if id == "" {
		id = api.NewRequestID()
		r.RequestID = id
	}
	return Item{ID: id, Result: r, AddedAt: now.UTC()}
}

// Search fuzzy-matches term against stored queries, best match first.
// An empty term returns the list unchanged.
func Search(ctx context.Context, s Store, term string, limit int) ([]Item, error) {
	items, err := s.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return clip(items, limit), nil
	}
	matches := fuzzy.FindFrom(term, queries(items))
	out := make([]Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, items[m.Index])
	}
	return clip(out, limit), nil
}

type queries []Item

func (q queries) String(i int) string { return q[i].Result.Query }
func (q queries) Len() int            { return len(q) }

func clip(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
