package generator

import (
	"strconv"
	"strings"
)

// Value is a single field rendered as SQL text.
type Value interface {
	SQL() string
}

// Row is one synthetic event, aligned with Columns().
type Row []Value

// Int renders as a bare integer literal.
type Int int64

func (v Int) SQL() string {
	return strconv.FormatInt(int64(v), 10)
}

// Float renders with exactly six decimal digits.
type Float float64

func (v Float) SQL() string {
	return strconv.FormatFloat(float64(v), 'f', 6, 64)
}

// String renders as a single-quoted literal. Generated strings never contain quotes.
type String string

func (v String) SQL() string {
	return "'" + string(v) + "'"
}

// UUIDNum wraps a canonical UUID string in UUIDStringToNum.
type UUIDNum string

func (v UUIDNum) SQL() string {
	return "UUIDStringToNum('" + string(v) + "')"
}

// TimeStep is an offset in seconds from the statement's execution time,
// optionally wrapped in a truncation function such as toStartOfHour.
type TimeStep struct {
	Func   string
	Offset int64
}

func (v TimeStep) SQL() string {
	expr := "now() + " + strconv.FormatInt(v.Offset, 10)
	if v.Func == "" {
		return expr
	}
	return v.Func + "(" + expr + ")"
}

// IntArray renders as [a,b,c].
type IntArray []int

func (v IntArray) SQL() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
