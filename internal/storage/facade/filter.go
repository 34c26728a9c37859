package facade

import "strings"

type condKind int

const (
	condCompare condKind = iota
	condLike
	condIn
	condNull
	condNotNull
	condBetween
	condOr
)

type condition struct {
	kind   condKind
	column string
	op     string
	values []any
	groups []*Filter
}

// Filter accumulates WHERE conditions joined by AND. A nil or empty Filter
// renders to nothing.
type Filter struct {
	conds []condition
}

func NewFilter() *Filter {
	return &Filter{}
}

func (f *Filter) compare(column, op string, value any) *Filter {
	f.conds = append(f.conds, condition{kind: condCompare, column: column, op: op, values: []any{value}})
	return f
}

func (f *Filter) Eq(column string, value any) *Filter    { return f.compare(column, "=", value) }
func (f *Filter) NotEq(column string, value any) *Filter { return f.compare(column, "<>", value) }
func (f *Filter) Lt(column string, value any) *Filter    { return f.compare(column, "<", value) }
func (f *Filter) Lte(column string, value any) *Filter   { return f.compare(column, "<=", value) }
func (f *Filter) Gt(column string, value any) *Filter    { return f.compare(column, ">", value) }
func (f *Filter) Gte(column string, value any) *Filter   { return f.compare(column, ">=", value) }

// Like matches rows whose column contains substr, case-insensitively.
// Wildcards inside substr are matched literally.
func (f *Filter) Like(column, substr string) *Filter {
	f.conds = append(f.conds, condition{kind: condLike, column: column, values: []any{"%" + escapeLike(substr) + "%"}})
	return f
}

// In matches any of values. An empty list matches no row.
func (f *Filter) In(column string, values ...any) *Filter {
	f.conds = append(f.conds, condition{kind: condIn, column: column, values: values})
	return f
}

func (f *Filter) IsNull(column string) *Filter {
	f.conds = append(f.conds, condition{kind: condNull, column: column})
	return f
}

func (f *Filter) IsNotNull(column string) *Filter {
	f.conds = append(f.conds, condition{kind: condNotNull, column: column})
	return f
}

func (f *Filter) Between(column string, from, to any) *Filter {
	f.conds = append(f.conds, condition{kind: condBetween, column: column, values: []any{from, to}})
	return f
}

// Or adds one condition that holds when any of the groups holds. Empty groups
// are dropped; if none is left the call is a no-op.
func (f *Filter) Or(groups ...*Filter) *Filter {
	var kept []*Filter
	for _, g := range groups {
		if !g.Empty() {
			kept = append(kept, g)
		}
	}
	if len(kept) > 0 {
		f.conds = append(f.conds, condition{kind: condOr, groups: kept})
	}
	return f
}

func (f *Filter) Empty() bool {
	return f == nil || len(f.conds) == 0
}

func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.conds)
}

// SQL renders the condition list on its own, numbering placeholders from 1.
func (f *Filter) SQL(d Dialect) (string, []any) {
	b := newBuilder(d)
	f.writeTo(b)
	return b.build()
}

func (f *Filter) writeWhere(b *builder) {
	if f.Empty() {
		return
	}
	b.write(" WHERE ")
	f.writeTo(b)
}

func (f *Filter) writeTo(b *builder) {
	if f.Empty() {
		return
	}
	for i, c := range f.conds {
		if i > 0 {
			b.write(" AND ")
		}
		c.writeTo(b)
	}
}

func (c condition) writeTo(b *builder) {
	switch c.kind {
	case condCompare:
		b.write(b.ident(c.column), " ", c.op, " ", b.bind(c.values[0]))
	case condLike:
		b.write(b.ident(c.column), " ", b.d.LikeOperator(), " ", b.bind(c.values[0]))
	case condIn:
		if len(c.values) == 0 {
			b.write("1 = 0")
			return
		}
		b.write(b.ident(c.column), " IN (")
		for i, v := range c.values {
			if i > 0 {
				b.write(", ")
			}
			b.write(b.bind(v))
		}
		b.write(")")
	case condNull:
		b.write(b.ident(c.column), " IS NULL")
	case condNotNull:
		b.write(b.ident(c.column), " IS NOT NULL")
	case condBetween:
		b.write(b.ident(c.column), " BETWEEN ", b.bind(c.values[0]), " AND ", b.bind(c.values[1]))
	case condOr:
		b.write("(")
		for i, g := range c.groups {
			if i > 0 {
				b.write(" OR ")
			}
			b.write("(")
			g.writeTo(b)
			b.write(")")
		}
		b.write(")")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Values converts a typed slice for use with Filter.In.
func Values[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
