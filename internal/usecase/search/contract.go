package search

// Catalog resolves search targets and exposes documents for scoring.
type Catalog interface {
	Resolve(expr string) ([]string, error)
	Scan(names []string, fn func(indexName, id string, doc any)) error
}
