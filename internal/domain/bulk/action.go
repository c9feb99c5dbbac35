// Package bulk describes bulk actions and their per-item outcomes.
package bulk

import "fmt"

// Op is a bulk action type.
type Op string

// Bulk action types as they appear in an NDJSON action line.
const (
	OpIndex  Op = "index"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ParseOp validates an action name.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case OpIndex, OpCreate, OpUpdate, OpDelete:
		return op, nil
	default:
		return "", fmt.Errorf("unknown bulk action [%s]", s)
	}
}

// HasSource reports whether the action is followed by a document line.
func (o Op) HasSource() bool { return o != OpDelete }

// Action is one bulk operation. ID may be empty for index and create, in
// which case an id is generated.
type Action struct {
	Op       Op
	Index    string
	ID       string
	Document any
}
