// internal/codegen/literal.go
package codegen

import (
	"math"
	"strconv"
	"strings"

	json "github.com/json-iterator/go"
)

// Literal is a rendered JavaScript expression.
type Literal string

// Str quotes s as a JavaScript string literal.
func Str(s string) Literal {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal only fails on invalid UTF-8 here; fall back to a lossy copy.
		b, _ = json.Marshal(strings.ToValidUTF8(s, "�"))
	}
	return Literal(b)
}

// Num renders a number with at most four decimals.
func Num(v float64) Literal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // drop negative zero
	}
	return Literal(strconv.FormatFloat(r, 'f', -1, 64))
}

func Int(v int) Literal { return Literal(strconv.Itoa(v)) }

func Bool(v bool) Literal { return Literal(strconv.FormatBool(v)) }

// Ref refers to a variable by name.
func Ref(name string) Literal { return Literal(name) }

// Field is one key of an object literal.
type Field struct {
	Key   string
	Value Literal
}

func F(key string, value Literal) Field { return Field{Key: key, Value: value} }

// Obj renders an object literal with keys in the given order.
func Obj(fields ...Field) Literal {
	if len(fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Key + ": " + string(f.Value)
	}
	return Literal("{ " + strings.Join(parts, ", ") + " }")
}

// Arr renders an array literal.
func Arr(items ...Literal) Literal {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return Literal("[" + strings.Join(parts, ", ") + "]")
}
