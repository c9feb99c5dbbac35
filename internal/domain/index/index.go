// Package index holds the metadata of a named document collection.
package index

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/esdex/internal/domain"
)

// MaxNameBytes is the longest accepted index name.
const MaxNameBytes = 255

// PropertiesKey is the mappings key under which field definitions live.
const PropertiesKey = "properties"

const invalidNameChars = `\/*?"<>| ,#:`

// Metadata is the persisted form of an index.
type Metadata struct {
	Settings  any      `json:"settings,omitempty"`
	Mappings  any      `json:"mappings,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
	CreatedAt int64    `json:"created_at,omitempty"`
}

// Index is the index aggregate without its documents (immutable value object).
type Index struct {
	name      string
	settings  any
	mappings  any
	aliases   []string
	createdAt int64
}

// ValidateName applies the Elasticsearch index naming rules: lowercase,
// no reserved characters, no leading - _ +, not . or .., at most 255 bytes.
func ValidateName(name string) error {
	switch {
	case name == "":
		return domain.InvalidRequest("index name is required")
	case len(name) > MaxNameBytes:
		return domain.InvalidRequest("index name [%s] is too long (max %d bytes)", name, MaxNameBytes)
	case name == "." || name == "..":
		return domain.InvalidRequest("index name [%s] must not be '.' or '..'", name)
	case strings.ContainsAny(name[:1], "-_+"):
		return domain.InvalidRequest("index name [%s] must not start with '_', '-', or '+'", name)
	case strings.ContainsAny(name, invalidNameChars):
		return domain.InvalidRequest("index name [%s] must not contain any of %q", name, invalidNameChars)
	case strings.ToLower(name) != name:
		return domain.InvalidRequest("index name [%s] must be lowercase", name)
	}
	return nil
}

// New validates the name and creates an Index.
func New(name string, settings, mappings any) (Index, error) {
	if err := ValidateName(name); err != nil {
		return Index{}, err
	}
	return Index{
		name:      name,
		settings:  settings,
		mappings:  mappings,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates an Index without validation (storage hydration).
func Reconstruct(name string, m Metadata) Index {
	return Index{
		name:      name,
		settings:  m.Settings,
		mappings:  m.Mappings,
		aliases:   normalizeAliases(m.Aliases),
		createdAt: m.CreatedAt,
	}
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// Settings returns the settings object, nil when unset.
func (i Index) Settings() any { return i.settings }

// Mappings returns the mappings object, nil when unset.
func (i Index) Mappings() any { return i.mappings }

// Aliases returns the sorted alias names.
func (i Index) Aliases() []string { return i.aliases }

// CreatedAt returns the creation timestamp (unix millis).
func (i Index) CreatedAt() int64 { return i.createdAt }

// HasAlias reports whether alias points at this index.
func (i Index) HasAlias(alias string) bool {
	n := sort.SearchStrings(i.aliases, alias)
	return n < len(i.aliases) && i.aliases[n] == alias
}

// Metadata returns the persisted form.
func (i Index) Metadata() Metadata {
	return Metadata{
		Settings:  i.settings,
		Mappings:  i.mappings,
		Aliases:   i.aliases,
		CreatedAt: i.createdAt,
	}
}

// WithMappings merges properties into the mappings.
func (i Index) WithMappings(properties any) Index {
	i.mappings = MergeMappings(i.mappings, properties)
	return i
}

// WithSettings merges keys into the settings.
func (i Index) WithSettings(settings any) Index {
	i.settings = MergeSettings(i.settings, settings)
	return i
}

// WithAlias adds an alias.
func (i Index) WithAlias(alias string) Index {
	if i.HasAlias(alias) {
		return i
	}
	i.aliases = normalizeAliases(append(append([]string(nil), i.aliases...), alias))
	return i
}

// WithoutAlias removes an alias.
func (i Index) WithoutAlias(alias string) Index {
	out := make([]string, 0, len(i.aliases))
	for _, a := range i.aliases {
		if a != alias {
			out = append(out, a)
		}
	}
	i.aliases = out
	return i
}

// MergeMappings merges new field properties into existing mappings one level
// deep under "properties". Without existing mappings the result is
// {"properties": properties}; when either side is not an object the new
// value replaces the old one.
func MergeMappings(existing, properties any) any {
	if existing == nil {
		return map[string]any{PropertiesKey: properties}
	}
	existingObj, ok := existing.(map[string]any)
	if !ok {
		return properties
	}
	newObj, ok := properties.(map[string]any)
	if !ok {
		return properties
	}

	out := copyObject(existingObj)
	current, has := existingObj[PropertiesKey]
	if !has {
		out[PropertiesKey] = copyObject(newObj)
		return out
	}
	currentObj, ok := current.(map[string]any)
	if !ok {
		return out
	}
	merged := copyObject(currentObj)
	for k, v := range newObj {
		merged[k] = v
	}
	out[PropertiesKey] = merged
	return out
}

// MergeSettings overlays new setting keys on existing ones. When either side
// is not an object the new value replaces the old one.
func MergeSettings(existing, settings any) any {
	existingObj, ok := existing.(map[string]any)
	if !ok {
		return settings
	}
	newObj, ok := settings.(map[string]any)
	if !ok {
		return settings
	}
	out := copyObject(existingObj)
	for k, v := range newObj {
		out[k] = v
	}
	return out
}

// ExtractProperties reads the field properties of a put-mapping body:
// either {"properties": ...} or {"mappings": {"properties": ...}}.
func ExtractProperties(body map[string]any) (any, error) {
	if p, ok := body[PropertiesKey]; ok {
		return p, nil
	}
	if m, ok := body["mappings"].(map[string]any); ok {
		if p, ok := m[PropertiesKey]; ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: missing 'properties' or 'mappings.properties' in request body",
		domain.ErrInvalidRequest)
}

func copyObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func normalizeAliases(aliases []string) []string {
	if len(aliases) == 0 {
		return nil
	}
	out := append([]string(nil), aliases...)
	sort.Strings(out)
	n := 0
	for i, a := range out {
		if i > 0 && a == out[n-1] {
			continue
		}
		out[n] = a
		n++
	}
	return out[:n]
}
