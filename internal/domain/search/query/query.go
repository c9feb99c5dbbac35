// Package query defines the recursive query variant evaluated by the scorer.
package query

// Query is one node of a query tree. The set of implementations is closed.
type Query interface {
	isQuery()
}

// MatchAll matches every document with score 1.
type MatchAll struct{}

// Match is a loose text match on one field ("_all"/"*" for every leaf).
type Match struct {
	Field string
	Text  string
}

// MatchPhrase requires the phrase words to occur in order.
type MatchPhrase struct {
	Field  string
	Phrase string
}

// MultiMatch takes the best Match score across Fields.
type MultiMatch struct {
	Text   string
	Fields []string
}

// Term is exact structural equality against a literal.
type Term struct {
	Field string
	Value any
}

// Terms matches when the field equals any listed literal.
type Terms struct {
	Field  string
	Values []any
}

// Prefix is a case-insensitive string prefix test.
type Prefix struct {
	Field  string
	Prefix string
}

// Wildcard matches the whole field value against a * / ? pattern.
type Wildcard struct {
	Field   string
	Pattern string
}

// Range bounds a numeric field. Nil bounds are not checked.
type Range struct {
	Field string
	GTE   *float64
	GT    *float64
	LTE   *float64
	LT    *float64
}

// Bool combines clauses with must / should / must_not / filter semantics.
type Bool struct {
	Must    []Query
	Should  []Query
	MustNot []Query
	Filter  []Query
}

// Alternatives evaluates its clauses in order and keeps the first positive score.
// It is produced when one query object names several query types or fields.
type Alternatives struct {
	Clauses []Query
}

func (MatchAll) isQuery()     {}
func (Match) isQuery()        {}
func (MatchPhrase) isQuery()  {}
func (MultiMatch) isQuery()   {}
func (Term) isQuery()         {}
func (Terms) isQuery()        {}
func (Prefix) isQuery()       {}
func (Wildcard) isQuery()     {}
func (Range) isQuery()        {}
func (Bool) isQuery()         {}
func (Alternatives) isQuery() {}
