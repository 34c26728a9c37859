package facade

// Attributes is an ordered list of column/value pairs written by INSERT and
// UPDATE statements. Setting a column twice replaces the earlier value and
// keeps its original position.
type Attributes struct {
	columns []string
	values  []any
	index   map[string]int
}

func NewAttributes() *Attributes {
	return &Attributes{index: make(map[string]int)}
}

func (a *Attributes) Set(column string, value any) *Attributes {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[column]; ok {
		a.values[i] = value
		return a
	}
	a.index[column] = len(a.columns)
	a.columns = append(a.columns, column)
	a.values = append(a.values, value)
	return a
}

// SetIf sets the column only when cond holds. Handy for partial updates built
// from optional fields.
func (a *Attributes) SetIf(cond bool, column string, value any) *Attributes {
	if cond {
		a.Set(column, value)
	}
	return a
}

// increment is a value added to the current column value.
type increment struct {
	delta any
}

// Increment renders column = column + delta, so concurrent writers never
// lose an update. Only UPDATE statements accept it.
func (a *Attributes) Increment(column string, delta any) *Attributes {
	return a.Set(column, increment{delta: delta})
}

func (a *Attributes) hasIncrement() bool {
	if a == nil {
		return false
	}
	for _, v := range a.values {
		if _, ok := v.(increment); ok {
			return true
		}
	}
	return false
}

func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.columns)
}

func (a *Attributes) Columns() []string {
	return append([]string(nil), a.columns...)
}

func (a *Attributes) Values() []any {
	return append([]any(nil), a.values...)
}

func (a *Attributes) Has(column string) bool {
	_, ok := a.index[column]
	return ok
}
