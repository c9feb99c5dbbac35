// Package result ranks, sorts and paginates scored hits.
package result

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain/document"
)

// ScoreField is the pseudo-field that sorts by relevance.
const ScoreField = "_score"

// Hit is a single scored document.
type Hit struct {
	Index     string
	ID        string
	Score     float64
	Source    any
	Highlight map[string][]string
}

// Order is a sort direction.
type Order int

// Sort directions.
const (
	Asc Order = iota
	Desc
)

// SortField is one sort key. The first field in a spec dominates.
type SortField struct {
	Field string
	Order Order
}

// Rank orders hits by score descending, then index and id ascending so that
// equal scores produce a stable total order.
func Rank(hits []Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.ID < b.ID
	})
}

// Sort stably re-sorts ranked hits by spec. Ties on every key keep the
// ranked order. Missing values sort after present ones in both directions.
func Sort(hits []Hit, spec []SortField) {
	if len(spec) == 0 {
		return
	}
	sort.SliceStable(hits, func(i, j int) bool {
		for _, f := range spec {
			if c := compareField(hits[i], hits[j], f); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

func compareField(a, b Hit, f SortField) int {
	av, aok := sortValue(a, f.Field)
	bv, bok := sortValue(b, f.Field)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	c := compareValues(av, bv)
	if f.Order == Desc {
		c = -c
	}
	return c
}

func sortValue(h Hit, field string) (any, bool) {
	if field == ScoreField {
		return h.Score, true
	}
	v, ok := document.Lookup(h.Source, field)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// kind ranks value types when a field holds mixed kinds.
func kind(v any) int {
	switch v.(type) {
	case float64:
		return 0
	case string:
		return 1
	case bool:
		return 2
	default:
		return 3
	}
}

func compareValues(a, b any) int {
	ka, kb := kind(a), kind(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Paginate returns hits[from:from+size], clamped to the slice bounds.
func Paginate(hits []Hit, from, size int) []Hit {
	if from < 0 {
		from = 0
	}
	if size < 0 {
		size = 0
	}
	if from >= len(hits) {
		return []Hit{}
	}
	end := from + size
	if end > len(hits) || end < from {
		end = len(hits)
	}
	return hits[from:end]
}

// MaxScore is the score of the first hit of a page.
func MaxScore(page []Hit) (float64, bool) {
	if len(page) == 0 {
		return 0, false
	}
	return page[0].Score, true
}
