package request

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/document"
	"github.com/kailas-cloud/esdex/internal/domain/search/highlight"
	"github.com/kailas-cloud/esdex/internal/domain/search/query"
	"github.com/kailas-cloud/esdex/internal/domain/search/result"
	"github.com/kailas-cloud/esdex/internal/domain/search/source"
)

// Search window limits.
const (
	DefaultSize            = 10
	DefaultMaxResultWindow = 10000
)

// Limits bounds a search page.
type Limits struct {
	DefaultSize     int
	MaxResultWindow int
}

// DefaultLimits returns the stock page limits.
func DefaultLimits() Limits {
	return Limits{DefaultSize: DefaultSize, MaxResultWindow: DefaultMaxResultWindow}
}

// Request is a validated search body.
type Request struct {
	query     query.Query
	from      int
	size      int
	sort      []result.SortField
	source    source.Filter
	highlight *highlight.Config
}

// New builds a request from already parsed parts.
func New(q query.Query, from, size int) Request {
	if q == nil {
		q = query.MatchAll{}
	}
	return Request{query: q, from: from, size: size, source: source.Everything()}
}

// Parse validates a decoded JSON search body. A nil body is match_all.
func Parse(body map[string]any, lim Limits) (Request, error) {
	if lim.DefaultSize <= 0 {
		lim.DefaultSize = DefaultSize
	}
	if lim.MaxResultWindow <= 0 {
		lim.MaxResultWindow = DefaultMaxResultWindow
	}
	body, err := normalizeBody(body)
	if err != nil {
		return Request{}, err
	}

	q, err := query.Parse(body["query"])
	if err != nil {
		return Request{}, err
	}
	from, err := intParam(body, "from", 0)
	if err != nil {
		return Request{}, err
	}
	size, err := intParam(body, "size", lim.DefaultSize)
	if err != nil {
		return Request{}, err
	}
	if from+size > lim.MaxResultWindow {
		return Request{}, domain.InvalidRequest(
			"result window is too large, from + size must be less than or equal to: [%d] but was [%d]",
			lim.MaxResultWindow, from+size)
	}
	spec, err := ParseSort(body["sort"])
	if err != nil {
		return Request{}, err
	}

	r := New(q, from, size)
	r.sort = spec
	if raw, ok := body["_source"]; ok {
		r.source = source.Parse(raw)
	}
	if cfg, ok := highlight.Parse(body["highlight"]); ok {
		r.highlight = &cfg
	}
	return r, nil
}

// normalizeBody converts Go values passed by embedding callers (ints,
// typed slices and maps) to the JSON-native types the parsers expect.
func normalizeBody(body map[string]any) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	norm, err := document.Normalize(body)
	if err != nil {
		return nil, domain.InvalidRequest("search body: %v", err)
	}
	out, _ := norm.(map[string]any)
	return out, nil
}

// ParseSort reads "field", "field:desc", {"field": "desc"},
// {"field": {"order": "desc"}} or a list of those.
func ParseSort(raw any) ([]result.SortField, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]result.SortField, 0, len(t))
		for _, item := range t {
			fields, err := ParseSort(item)
			if err != nil {
				return nil, err
			}
			out = append(out, fields...)
		}
		return out, nil
	case string:
		var out []result.SortField
		for _, part := range strings.Split(t, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, dir, hasDir := strings.Cut(part, ":")
			f := result.SortField{Field: name, Order: defaultOrder(name)}
			if hasDir {
				o, err := parseOrder(dir)
				if err != nil {
					return nil, err
				}
				f.Order = o
			}
			out = append(out, f)
		}
		return out, nil
	case map[string]any:
		names := make([]string, 0, len(t))
		for k := range t {
			names = append(names, k)
		}
		sort.Strings(names)
		out := make([]result.SortField, 0, len(names))
		for _, name := range names {
			f := result.SortField{Field: name, Order: defaultOrder(name)}
			var dir any
			switch spec := t[name].(type) {
			case string:
				dir = spec
			case map[string]any:
				dir = spec["order"]
			}
			if s, ok := dir.(string); ok {
				o, err := parseOrder(s)
				if err != nil {
					return nil, err
				}
				f.Order = o
			}
			out = append(out, f)
		}
		return out, nil
	default:
		return nil, domain.InvalidRequest("malformed sort")
	}
}

func defaultOrder(field string) result.Order {
	if field == result.ScoreField {
		return result.Desc
	}
	return result.Asc
}

func parseOrder(s string) (result.Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return result.Asc, nil
	case "desc":
		return result.Desc, nil
	default:
		return result.Asc, domain.InvalidRequest("unknown sort order [%s]", s)
	}
}

func intParam(body map[string]any, key string, def int) (int, error) {
	raw, ok := body[key]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := raw.(float64)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, domain.InvalidRequest("[%s] must be an integer", key)
	}
	if f < 0 {
		return 0, domain.InvalidRequest("[%s] parameter cannot be negative, found [%v]", key, f)
	}
	if f > math.MaxInt32 {
		return 0, domain.InvalidRequest("[%s] is too large", key)
	}
	return int(f), nil
}

// Query returns the parsed query.
func (r Request) Query() query.Query { return r.query }

// From returns the number of hits to skip.
func (r Request) From() int { return r.from }

// Size returns the page size.
func (r Request) Size() int { return r.size }

// Sort returns the sort spec, nil for score order.
func (r Request) Sort() []result.SortField { return r.sort }

// Source returns the _source projection.
func (r Request) Source() source.Filter { return r.source }

// Highlight returns the highlight config, nil when highlighting is off.
func (r Request) Highlight() *highlight.Config { return r.highlight }

// WithSort replaces the sort spec.
func (r Request) WithSort(spec []result.SortField) Request {
	r.sort = spec
	return r
}

// WithSource replaces the _source projection.
func (r Request) WithSource(f source.Filter) Request {
	r.source = f
	return r
}
