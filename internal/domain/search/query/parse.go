package query

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/esdex/internal/domain"
	"github.com/kailas-cloud/esdex/internal/domain/document"
)

// Query type names as they appear in the JSON DSL, in evaluation order.
const (
	TypeMatch       = "match"
	TypeMatchPhrase = "match_phrase"
	TypeMultiMatch  = "multi_match"
	TypeRange       = "range"
	TypeTerm        = "term"
	TypeTerms       = "terms"
	TypePrefix      = "prefix"
	TypeWildcard    = "wildcard"
	TypeBool        = "bool"
	TypeMatchAll    = "match_all"
)

var evaluationOrder = []string{
	TypeMatch, TypeMatchPhrase, TypeMultiMatch, TypeRange, TypeTerm,
	TypeTerms, TypePrefix, TypeWildcard, TypeBool, TypeMatchAll,
}

// Parse converts a JSON DSL query object into a Query.
// A nil or empty object is MatchAll.
func Parse(raw any) (Query, error) {
	if raw == nil {
		return MatchAll{}, nil
	}
	norm, err := document.Normalize(raw)
	if err != nil {
		return nil, domain.InvalidRequest("query: %v", err)
	}
	return parse(norm)
}

func parse(raw any) (Query, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("query must be an object, got %s", kindOf(raw))
	}
	if len(obj) == 0 {
		return MatchAll{}, nil
	}
	for k := range obj {
		if !isKnownType(k) {
			return nil, domain.InvalidRequest("unknown query type [%s]", k)
		}
	}

	var clauses []Query
	for _, typ := range evaluationOrder {
		body, ok := obj[typ]
		if !ok {
			continue
		}
		q, err := parseType(typ, body)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, q)
		if typ == TypeBool {
			// A bool decides the score; later alternatives are never tried.
			break
		}
	}
	return alternatives(clauses), nil
}

func parseType(typ string, body any) (Query, error) {
	switch typ {
	case TypeMatchAll:
		return MatchAll{}, nil
	case TypeBool:
		return parseBool(body)
	case TypeMultiMatch:
		return parseMultiMatch(body)
	}

	fields, err := fieldMap(typ, body)
	if err != nil {
		return nil, err
	}
	clauses := make([]Query, 0, len(fields))
	for _, name := range sortedKeys(fields) {
		q, err := parseLeaf(typ, name, fields[name])
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, q)
	}
	if len(clauses) == 0 {
		// An empty leaf body never matches.
		return Alternatives{}, nil
	}
	return alternatives(clauses), nil
}

func parseLeaf(typ, field string, v any) (Query, error) {
	switch typ {
	case TypeMatch:
		text, err := textParam(typ, field, v, "query")
		if err != nil {
			return nil, err
		}
		return Match{Field: field, Text: text}, nil
	case TypeMatchPhrase:
		text, err := textParam(typ, field, v, "query")
		if err != nil {
			return nil, err
		}
		return MatchPhrase{Field: field, Phrase: text}, nil
	case TypePrefix:
		text, err := textParam(typ, field, v, "value")
		if err != nil {
			return nil, err
		}
		return Prefix{Field: field, Prefix: text}, nil
	case TypeWildcard:
		text, err := textParam(typ, field, v, "value")
		if err != nil {
			return nil, err
		}
		return Wildcard{Field: field, Pattern: text}, nil
	case TypeTerm:
		if obj, ok := v.(map[string]any); ok {
			if inner, has := obj["value"]; has {
				return Term{Field: field, Value: inner}, nil
			}
		}
		return Term{Field: field, Value: v}, nil
	case TypeTerms:
		values, ok := v.([]any)
		if !ok {
			return nil, domain.InvalidRequest("[terms] field [%s] expects an array of values", field)
		}
		return Terms{Field: field, Values: values}, nil
	case TypeRange:
		return parseRange(field, v)
	}
	return nil, domain.InvalidRequest("unknown query type [%s]", typ)
}

func parseMultiMatch(body any) (Query, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("[multi_match] expects an object")
	}
	q := MultiMatch{Fields: []string{document.AllFields}}
	if text, ok := obj["query"]; ok {
		s, isText := document.Text(text)
		if !isText {
			return nil, domain.InvalidRequest("[multi_match] query must be a scalar")
		}
		q.Text = s
	}
	switch f := obj["fields"].(type) {
	case nil:
	case string:
		q.Fields = []string{f}
	case []any:
		fields := make([]string, 0, len(f))
		for _, item := range f {
			if s, ok := item.(string); ok {
				fields = append(fields, s)
			}
		}
		q.Fields = fields
	default:
		return nil, domain.InvalidRequest("[multi_match] fields must be a string or an array")
	}
	return q, nil
}

func parseRange(field string, v any) (Query, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("[range] field [%s] expects an object of bounds", field)
	}
	q := Range{Field: field}
	bounds := []struct {
		key string
		dst **float64
	}{
		{"gte", &q.GTE}, {"gt", &q.GT}, {"lte", &q.LTE}, {"lt", &q.LT},
	}
	for _, b := range bounds {
		raw, ok := obj[b.key]
		if !ok || raw == nil {
			continue
		}
		f, isNum := document.Number(raw)
		if !isNum {
			return nil, domain.InvalidRequest("[range] bound [%s] on [%s] must be numeric", b.key, field)
		}
		*b.dst = &f
	}
	return q, nil
}

func parseBool(body any) (Query, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("[bool] expects an object")
	}
	var q Bool
	sections := []struct {
		key string
		dst *[]Query
	}{
		{"must", &q.Must}, {"should", &q.Should}, {"must_not", &q.MustNot}, {"filter", &q.Filter},
	}
	for _, s := range sections {
		raw, ok := obj[s.key]
		if !ok || raw == nil {
			continue
		}
		items, isList := raw.([]any)
		if !isList {
			items = []any{raw}
		}
		for _, item := range items {
			clause, err := parse(item)
			if err != nil {
				return nil, fmt.Errorf("[bool] %s: %w", s.key, err)
			}
			*s.dst = append(*s.dst, clause)
		}
	}
	return q, nil
}

func fieldMap(typ string, body any) (map[string]any, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, domain.InvalidRequest("[%s] expects an object keyed by field name", typ)
	}
	return obj, nil
}

// textParam accepts either a bare scalar or an object carrying it under key.
func textParam(typ, field string, v any, key string) (string, error) {
	if obj, ok := v.(map[string]any); ok {
		inner, has := obj[key]
		if !has {
			return "", nil
		}
		v = inner
	}
	if v == nil {
		return "", nil
	}
	s, ok := document.Text(v)
	if !ok {
		return "", domain.InvalidRequest("[%s] field [%s] expects a scalar, got %s", typ, field, kindOf(v))
	}
	return s, nil
}

func alternatives(clauses []Query) Query {
	if len(clauses) == 1 {
		return clauses[0]
	}
	return Alternatives{Clauses: clauses}
}

func isKnownType(name string) bool {
	for _, t := range evaluationOrder {
		if t == name {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
