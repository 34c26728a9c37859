package facade

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Dialect int

const (
	MySQL Dialect = iota
	Postgres
)

func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "mysql", "":
		return MySQL, nil
	case "postgres", "postgresql":
		return Postgres, nil
	}
	return MySQL, fmt.Errorf("unknown sql dialect %q", name)
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "mysql"
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	return d.String()
}

// Placeholder returns the bind marker for the n-th argument (1-based).
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ReturningID reports whether inserted keys are read with RETURNING instead
// of sql.Result.LastInsertId.
func (d Dialect) ReturningID() bool {
	return d == Postgres
}

// LikeOperator is the case-insensitive pattern match operator.
func (d Dialect) LikeOperator() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

var identPart = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Quote quotes a plain or alias-qualified identifier ("u.email", "users").
// Anything else, such as "COUNT(*)" or "u.*", is treated as an expression
// and returned as written, apart from quoting a leading alias of "x.*".
func (d Dialect) Quote(ident string) string {
	parts := strings.Split(ident, ".")
	if len(parts) > 2 {
		return ident
	}
	for i, p := range parts {
		if i == len(parts)-1 && p == "*" && len(parts) == 2 {
			continue
		}
		if !identPart.MatchString(p) {
			return ident
		}
	}
	q := `"`
	if d == MySQL {
		q = "`"
	}
	for i, p := range parts {
		if p != "*" {
			parts[i] = q + p + q
		}
	}
	return strings.Join(parts, ".")
}

func (d Dialect) limit(limit, offset int) string {
	switch {
	case limit > 0 && offset > 0:
		return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	case limit > 0:
		return fmt.Sprintf(" LIMIT %d", limit)
	case offset > 0:
		if d == MySQL {
			// MySQL has no OFFSET without LIMIT
			return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", offset)
		}
		return fmt.Sprintf(" OFFSET %d", offset)
	}
	return ""
}

// builder accumulates SQL text and bound arguments, numbering placeholders
// consecutively across every part of a statement.
type builder struct {
	d    Dialect
	sb   strings.Builder
	args []any
}

func newBuilder(d Dialect) *builder {
	return &builder{d: d}
}

func (b *builder) write(parts ...string) {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
}

func (b *builder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

func (b *builder) ident(name string) string {
	return b.d.Quote(name)
}

func (b *builder) build() (string, []any) {
	return b.sb.String(), b.args
}
