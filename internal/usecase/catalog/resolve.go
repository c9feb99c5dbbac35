package catalog

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/search/score"
)

const allIndices = "_all"

// MatchIndices returns the sorted index names matching a * / ? glob.
// An invalid pattern matches nothing.
func (c *Catalog) MatchIndices(pattern string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchLocked(pattern)
}

func (c *Catalog) matchLocked(pattern string) []string {
	re, err := score.Glob(pattern)
	if err != nil {
		return nil
	}
	var out []string
	for name := range c.indices {
		if re.MatchString(name) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Resolve expands a search target into sorted, distinct index names.
// The expression is a comma separated list of index names, aliases and globs;
// an empty expression, "_all" and "*" select every index. A concrete name
// that is neither an index nor an alias fails with ErrIndexNotFound, while a
// glob that matches nothing contributes nothing.
func (c *Catalog) Resolve(expr string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		var names []string
		switch {
		case part == "" || part == allIndices || part == "*":
			names = c.namesLocked()
		case strings.ContainsAny(part, "*?"):
			names = c.matchLocked(part)
		default:
			if _, ok := c.indices[part]; ok {
				names = []string{part}
			} else if names = c.aliasTargetsLocked(part); names == nil {
				return nil, domain.IndexNotFound(part)
			}
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
