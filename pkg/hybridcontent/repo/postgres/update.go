package postgres

import (
	"fmt"
	"strings"

	"github.com/tendant/hybrid-content/pkg/hybridcontent"
	"github.com/tendant/hybrid-content/pkg/hybridcontent/contentstore"
)

// updateBuilder assembles a partial UPDATE from the set fields of a patch.
// Columns appear in the order they are added and updated_at is always
// refreshed.
type updateBuilder struct {
	table string
	sets  []string
	args  []any
}

func newUpdate(table string) *updateBuilder {
	return &updateBuilder{table: table}
}

func (b *updateBuilder) add(column string, value any) {
	b.addExpr(column, "%s", value)
}

// addExpr binds value into expr, where %s stands for the placeholder.
func (b *updateBuilder) addExpr(column, expr string, value any) {
	b.args = append(b.args, value)
	placeholder := fmt.Sprintf("$%d", len(b.args))
	b.sets = append(b.sets, column+" = "+fmt.Sprintf(expr, placeholder))
}

func (b *updateBuilder) build(id int64, returning string) (string, []any) {
	sets := make([]string, 0, len(b.sets)+1)
	sets = append(sets, b.sets...)
	sets = append(sets, "updated_at = NOW()")

	args := make([]any, 0, len(b.args)+1)
	args = append(args, b.args...)
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		b.table, strings.Join(sets, ", "), len(args), returning)
	return sql, args
}

func setField[T any](b *updateBuilder, column string, o hybridcontent.Optional[T]) {
	if v, ok := o.Get(); ok {
		b.add(column, v)
	}
}

// setNullable stores the empty string as NULL so unique text columns allow
// more than one blank row.
func setNullable(b *updateBuilder, column string, o hybridcontent.Optional[string]) {
	if v, ok := o.Get(); ok {
		b.addExpr(column, "NULLIF(%s, '')", v)
	}
}

func setJSON[T any](b *updateBuilder, column string, o hybridcontent.Optional[T]) {
	if v, ok := o.Get(); ok {
		b.add(column, contentstore.JSONOf(v))
	}
}

func setList[T any](b *updateBuilder, column string, o hybridcontent.Optional[[]T]) {
	if v, ok := o.Get(); ok {
		b.add(column, contentstore.JSONOf(contentstore.EmptyList(v)))
	}
}
