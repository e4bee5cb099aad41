package utils

import (
	"fmt"
	"strings"
)

// WhereBuilder collects AND-ed conditions with positional pgx args.
//
//	w := utils.NewWhereBuilder()
//	w.Add("status = $%d", status)
//	query := "SELECT ... FROM t" + w.SQL()
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// Add appends a clause. Every %d in format is replaced by the next arg position.
func (w *WhereBuilder) Add(format string, args ...interface{}) {
	positions := make([]interface{}, len(args))
	for i := range args {
		positions[i] = len(w.args) + i + 1
	}
	w.clauses = append(w.clauses, fmt.Sprintf(format, positions...))
	w.args = append(w.args, args...)
}

// AddRaw appends a clause without arguments.
func (w *WhereBuilder) AddRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// SQL returns " WHERE a AND b" or an empty string.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the collected args.
func (w *WhereBuilder) Args() []interface{} {
	return w.args
}

// Next returns the placeholder index for an arg appended after the filters (LIMIT/OFFSET).
func (w *WhereBuilder) Next() int {
	return len(w.args) + 1
}
