package facade

import (
	"errors"
	"strings"
)

var (
	// ErrUnfilteredWrite guards against UPDATE or DELETE without a WHERE clause.
	ErrUnfilteredWrite = errors.New("facade: refusing to write without a filter")
	ErrNoAttributes    = errors.New("facade: no attributes to write")
	ErrInsertIncrement = errors.New("facade: increment is only valid in UPDATE")
)

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

func (k JoinKind) keyword() string {
	if k == LeftJoin {
		return "LEFT JOIN"
	}
	return "INNER JOIN"
}

// Join adds Table AS Alias ON Left = Right to a facade.
type Join struct {
	Kind  JoinKind
	Table string
	Alias string
	Left  string
	Right string
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Page is a LIMIT/OFFSET window, Limit 0 renders no LIMIT.
type Page struct {
	Limit  int
	Offset int
}

// Facade renders statements for one table and the tables joined to it.
// Reads may use alias-qualified columns; writes target the bare table, so
// filters passed to Update and Delete must use unqualified columns.
type Facade struct {
	dialect  Dialect
	table    string
	alias    string
	idColumn string
	columns  []string
	joins    []Join
}

func New(d Dialect, table, alias string) *Facade {
	return &Facade{dialect: d, table: table, alias: alias}
}

// Key sets the auto-generated key column read back after Insert.
func (f *Facade) Key(column string) *Facade {
	f.idColumn = column
	return f
}

// Select sets the column list of reads.
func (f *Facade) Select(columns ...string) *Facade {
	f.columns = append(f.columns, columns...)
	return f
}

// Join returns a composite facade: a copy of f with an extra joined table and
// its columns appended to the select list.
func (f *Facade) Join(j Join, columns ...string) *Facade {
	c := *f
	c.joins = append(append([]Join(nil), f.joins...), j)
	c.columns = append(append([]string(nil), f.columns...), columns...)
	return &c
}

func (f *Facade) Dialect() Dialect { return f.dialect }
func (f *Facade) Table() string    { return f.table }
func (f *Facade) Alias() string    { return f.alias }
func (f *Facade) Columns() []string {
	return append([]string(nil), f.columns...)
}

// ReturnsID reports whether Insert ends with RETURNING the key column.
func (f *Facade) ReturnsID() bool {
	return f.idColumn != "" && f.dialect.ReturningID()
}

func (f *Facade) writeFrom(b *builder) {
	b.write(" FROM ", b.ident(f.table))
	if f.alias != "" {
		b.write(" ", b.ident(f.alias))
	}
	for _, j := range f.joins {
		b.write(" ", j.Kind.keyword(), " ", b.ident(j.Table))
		if j.Alias != "" {
			b.write(" ", b.ident(j.Alias))
		}
		b.write(" ON ", b.ident(j.Left), " = ", b.ident(j.Right))
	}
}

func writeColumns(b *builder, columns []string) {
	for i, c := range columns {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.ident(c))
	}
}

func writeOrder(b *builder, order []Order) {
	if len(order) == 0 {
		return
	}
	b.write(" ORDER BY ")
	for i, o := range order {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.ident(o.Column))
		if o.Desc {
			b.write(" DESC")
		} else {
			b.write(" ASC")
		}
	}
}

func (f *Facade) SelectQuery(filter *Filter, order []Order, page Page) (string, []any) {
	b := newBuilder(f.dialect)
	b.write("SELECT ")
	writeColumns(b, f.columns)
	f.writeFrom(b)
	filter.writeWhere(b)
	writeOrder(b, order)
	b.write(f.dialect.limit(page.Limit, page.Offset))
	return b.build()
}

func (f *Facade) CountQuery(filter *Filter) (string, []any) {
	b := newBuilder(f.dialect)
	b.write("SELECT COUNT(*)")
	f.writeFrom(b)
	filter.writeWhere(b)
	return b.build()
}

// AggregateQuery selects arbitrary expressions over the facade's tables,
// grouped by groupBy.
func (f *Facade) AggregateQuery(columns []string, filter *Filter, groupBy []string, order []Order) (string, []any) {
	b := newBuilder(f.dialect)
	b.write("SELECT ")
	writeColumns(b, columns)
	f.writeFrom(b)
	filter.writeWhere(b)
	if len(groupBy) > 0 {
		b.write(" GROUP BY ")
		writeColumns(b, groupBy)
	}
	writeOrder(b, order)
	return b.build()
}

func (f *Facade) InsertQuery(attrs *Attributes) (string, []any, error) {
	if attrs.Len() == 0 {
		return "", nil, ErrNoAttributes
	}
	if attrs.hasIncrement() {
		return "", nil, ErrInsertIncrement
	}
	b := newBuilder(f.dialect)
	f.writeInsert(b, attrs)
	if f.ReturnsID() {
		b.write(" RETURNING ", b.ident(f.idColumn))
	}
	query, args := b.build()
	return query, args, nil
}

func (f *Facade) writeInsert(b *builder, attrs *Attributes) {
	b.write("INSERT INTO ", b.ident(f.table), " (")
	writeColumns(b, attrs.columns)
	b.write(") VALUES (")
	for i, v := range attrs.values {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.bind(v))
	}
	b.write(")")
}

// UpsertQuery inserts attrs or, when a row with the same conflict columns
// exists, overwrites its update columns.
func (f *Facade) UpsertQuery(attrs *Attributes, conflict []string, update []string) (string, []any, error) {
	if attrs.Len() == 0 || len(update) == 0 {
		return "", nil, ErrNoAttributes
	}
	if attrs.hasIncrement() {
		return "", nil, ErrInsertIncrement
	}
	b := newBuilder(f.dialect)
	f.writeInsert(b, attrs)
	if f.dialect == Postgres {
		b.write(" ON CONFLICT (")
		writeColumns(b, conflict)
		b.write(") DO UPDATE SET ")
		for i, c := range update {
			if i > 0 {
				b.write(", ")
			}
			b.write(b.ident(c), " = EXCLUDED.", b.ident(c))
		}
	} else {
		b.write(" ON DUPLICATE KEY UPDATE ")
		for i, c := range update {
			if i > 0 {
				b.write(", ")
			}
			b.write(b.ident(c), " = VALUES(", b.ident(c), ")")
		}
	}
	query, args := b.build()
	return query, args, nil
}

func (f *Facade) UpdateQuery(attrs *Attributes, filter *Filter) (string, []any, error) {
	if attrs.Len() == 0 {
		return "", nil, ErrNoAttributes
	}
	if filter.Empty() {
		return "", nil, ErrUnfilteredWrite
	}
	b := newBuilder(f.dialect)
	b.write("UPDATE ", b.ident(f.table), " SET ")
	for i, c := range attrs.columns {
		if i > 0 {
			b.write(", ")
		}
		if inc, ok := attrs.values[i].(increment); ok {
			b.write(b.ident(c), " = ", b.ident(c), " + ", b.bind(inc.delta))
			continue
		}
		b.write(b.ident(c), " = ", b.bind(attrs.values[i]))
	}
	filter.writeWhere(b)
	query, args := b.build()
	return query, args, nil
}

func (f *Facade) DeleteQuery(filter *Filter) (string, []any, error) {
	if filter.Empty() {
		return "", nil, ErrUnfilteredWrite
	}
	b := newBuilder(f.dialect)
	b.write("DELETE FROM ", b.ident(f.table))
	filter.writeWhere(b)
	query, args := b.build()
	return query, args, nil
}

// Qualify prefixes column with the facade alias.
func (f *Facade) Qualify(column string) string {
	if f.alias == "" || strings.Contains(column, ".") {
		return column
	}
	return f.alias + "." + column
}
