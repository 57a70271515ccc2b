package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Params is an ordered parameter binding. Within one definition every binding
// shares the same name set; the zero value is the undeclared empty binding
// used for unparametrized benchmarks.
type Params struct {
	names    []string
	values   map[string]any
	declared bool
}

// NewParams builds a binding from alternating name/value pairs, preserving
// the given order. It panics on structural misuse (odd arity, non-string
// name, duplicate name); that is a programming error in the suite.
func NewParams(pairs ...any) Params {
	if len(pairs)%2 != 0 {
		panic("bench: NewParams requires name/value pairs")
	}
	p := Params{
		names:    make([]string, 0, len(pairs)/2),
		values:   make(map[string]any, len(pairs)/2),
		declared: true,
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("bench: parameter name must be a string, got %T", pairs[i]))
		}
		if _, dup := p.values[name]; dup {
			panic(fmt.Sprintf("bench: duplicate parameter %q", name))
		}
		p.names = append(p.names, name)
		p.values[name] = pairs[i+1]
	}
	return p
}

func newBinding(names []string, values []any) Params {
	p := Params{
		names:    append([]string(nil), names...),
		values:   make(map[string]any, len(names)),
		declared: true,
	}
	for i, name := range names {
		p.values[name] = values[i]
	}
	return p
}

// With returns a copy of the binding with name set to value, appended at the
// end if it was not present. The receiver is not modified.
func (p Params) With(name string, value any) Params {
	out := Params{
		names:    append([]string(nil), p.names...),
		values:   make(map[string]any, len(p.values)+1),
		declared: true,
	}
	for k, v := range p.values {
		out.values[k] = v
	}
	if _, ok := out.values[name]; !ok {
		out.names = append(out.names, name)
	}
	out.values[name] = value
	return out
}

// Len returns the number of bound parameters.
func (p Params) Len() int { return len(p.names) }

// Names returns the parameter names in declared order.
func (p Params) Names() []string { return append([]string(nil), p.names...) }

// Declared reports whether the binding came from a parametrization spec.
// An undeclared binding serializes to an absent signature, which is distinct
// from a declared binding that happens to be empty.
func (p Params) Declared() bool { return p.declared }

// Value returns the raw value bound to name, or nil.
func (p Params) Value(name string) any { return p.values[name] }

// Int returns the value bound to name as an int. Integer-valued floats are
// accepted because values survive a JSON round trip as float64.
func (p Params) Int(name string) int {
	switch v := p.values[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		panic(fmt.Sprintf("bench: parameter %q is %T, not an integer", name, p.values[name]))
	}
}

// Float64 returns the value bound to name as a float64.
func (p Params) Float64(name string) float64 {
	switch v := p.values[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		panic(fmt.Sprintf("bench: parameter %q is %T, not a number", name, p.values[name]))
	}
}

// String returns the value bound to name as a string.
func (p Params) String(name string) string {
	v, ok := p.values[name].(string)
	if !ok {
		panic(fmt.Sprintf("bench: parameter %q is %T, not a string", name, p.values[name]))
	}
	return v
}

// Bool returns the value bound to name as a bool.
func (p Params) Bool(name string) bool {
	v, ok := p.values[name].(bool)
	if !ok {
		panic(fmt.Sprintf("bench: parameter %q is %T, not a bool", name, p.values[name]))
	}
	return v
}

// Signature returns the canonical serialization of the binding: a JSON
// object with keys in declared order. ok is false for the undeclared empty
// binding, whose signature is absent rather than "{}".
func (p Params) Signature() (sig string, ok bool) {
	if !p.declared {
		return "", false
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			panic(err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.values[name])
		if err != nil {
			panic(fmt.Sprintf("bench: parameter %q is not serializable: %v", name, err))
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String(), true
}

type axis struct {
	name   string
	values []any
}

// paramSpec is either a list of cartesian axes (Grid) or an explicit
// name list plus value tuples (Cases).
type paramSpec struct {
	axes  []axis
	names []string
	cases [][]any
}

// Variant is one expanded instance of a benchmark: the raw binding used as
// the parameter signature and the arguments actually passed to the body.
type Variant struct {
	Binding Params
	Args    Params
}

// Variants expands the definition's parametrization spec into its ordered
// variants. Grid axes expand to their cartesian product with the last axis
// iterating fastest; explicit cases keep their input order. A definition
// without a spec yields a single variant with the undeclared empty binding.
func (d *Definition) Variants() ([]Variant, error) {
	if d.spec == nil {
		return []Variant{{Binding: Params{}, Args: Params{}}}, nil
	}

	var bindings []Params
	switch {
	case len(d.spec.axes) > 0 && d.spec.names != nil:
		return nil, fmt.Errorf("%s: cannot combine Grid and Cases parametrization", d.Name)
	case len(d.spec.axes) > 0:
		bindings = expandGrid(d.spec.axes)
	default:
		var err error
		bindings, err = expandCases(d.Name, d.spec.names, d.spec.cases)
		if err != nil {
			return nil, err
		}
	}

	variants := make([]Variant, 0, len(bindings))
	for _, b := range bindings {
		args := b
		if d.setup != nil {
			args = d.setup(b)
		}
		variants = append(variants, Variant{Binding: b, Args: args})
	}
	return variants, nil
}

func expandGrid(axes []axis) []Params {
	names := make([]string, len(axes))
	total := 1
	for i, ax := range axes {
		names[i] = ax.name
		total *= len(ax.values)
	}
	if total == 0 {
		return nil
	}

	bindings := make([]Params, 0, total)
	tuple := make([]any, len(axes))
	var walk func(depth int)
	walk = func(depth int) {
		if depth == len(axes) {
			bindings = append(bindings, newBinding(names, tuple))
			return
		}
		for _, v := range axes[depth].values {
			tuple[depth] = v
			walk(depth + 1)
		}
	}
	walk(0)
	return bindings
}

func expandCases(defName string, names []string, cases [][]any) ([]Params, error) {
	bindings := make([]Params, 0, len(cases))
	for i, tuple := range cases {
		if len(tuple) != len(names) {
			return nil, fmt.Errorf("%s: case %d has %d values for %d parameter names",
				defName, i, len(tuple), len(names))
		}
		bindings = append(bindings, newBinding(names, tuple))
	}
	return bindings, nil
}
