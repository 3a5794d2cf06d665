package repository

import (
	"fmt"
	"strings"
)

// updateBuilder assembles the SET list of a partial UPDATE from optional fields.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

// set adds column = value. cast, when non-empty, is appended to the placeholder.
func (b *updateBuilder) set(column string, value any, cast string) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d%s", column, len(b.args), cast))
}

func setIfPresent[T any](b *updateBuilder, column string, value *T) {
	if value != nil {
		b.set(column, *value, "")
	}
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// build returns the statement and arguments, keyed on idColumn = id.
func (b *updateBuilder) build(idColumn string, id int64) (string, []any) {
	args := append(b.args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		b.table, strings.Join(b.sets, ", "), idColumn, len(args))
	return sql, args
}
