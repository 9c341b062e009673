package attr

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
)

// Kind is the type predicate a Rule enforces.
type Kind int

const (
	KindNumber Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindCallable
	KindObject
)

var kindNames = map[Kind]string{
	KindNumber:   "Number",
	KindInt:      "Int",
	KindFloat:    "Float",
	KindString:   "String",
	KindBool:     "Boolean",
	KindCallable: "Callable",
	KindObject:   "Object",
}

var kindExpectations = map[Kind]string{
	KindNumber:   "a number",
	KindInt:      "an int",
	KindFloat:    "a float",
	KindString:   "a string",
	KindBool:     "a bool",
	KindCallable: "a callable for type conversion",
	KindObject:   "a domain object",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expected describes the accepted values in error messages.
func (k Kind) Expected() string {
	return kindExpectations[k]
}

func (k Kind) numeric() bool {
	return k == KindNumber || k == KindInt || k == KindFloat
}

// Described is implemented by domain objects; KindObject accepts any value
// that satisfies it.
type Described interface {
	ClassName() string
	ObjectName() string
}

// Rule is a stateless validator: a type predicate plus optional inclusive
// bounds for numeric kinds. The zero value is a Number rule without bounds.
type Rule struct {
	kind Kind
	min  *float64
	max  *float64
}

type RuleOption func(*Rule)

// Min sets an inclusive lower bound. Ignored for non numeric kinds.
func Min(v float64) RuleOption {
	return func(r *Rule) {
		r.min = &v
	}
}

// Max sets an inclusive upper bound. Ignored for non numeric kinds.
func Max(v float64) RuleOption {
	return func(r *Rule) {
		r.max = &v
	}
}

func newRule(kind Kind, opts ...RuleOption) Rule {
	r := Rule{kind: kind}
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	if !kind.numeric() {
		r.min, r.max = nil, nil
	}
	return r
}

// Number accepts any integer or floating point value.
func Number(opts ...RuleOption) Rule { return newRule(KindNumber, opts...) }

// Int accepts signed and unsigned integers.
func Int(opts ...RuleOption) Rule { return newRule(KindInt, opts...) }

// Float accepts float32 and float64.
func Float(opts ...RuleOption) Rule { return newRule(KindFloat, opts...) }

func String() Rule   { return newRule(KindString) }
func Bool() Rule     { return newRule(KindBool) }
func Callable() Rule { return newRule(KindCallable) }
func Object() Rule   { return newRule(KindObject) }

func (r Rule) Kind() Kind {
	return r.kind
}

func (r Rule) Min() (float64, bool) {
	if r.min == nil {
		return 0, false
	}
	return *r.min, true
}

func (r Rule) Max() (float64, bool) {
	if r.max == nil {
		return 0, false
	}
	return *r.max, true
}

// Validate checks v against the type predicate, then the bounds.
func (r Rule) Validate(field string, v any) error {
	num, ok := r.matches(v)
	if !ok {
		return errors.New(
			fmt.Sprintf("%s: %sDescriptor got >>%v<< of type >>%T<<, but expected >>%s<<",
				field, r.kind, v, v, r.kind.Expected()),
			errors.CategoryValidation,
		).
			WithTextCode(errs.CodeTypeMismatch).
			WithMetadata(map[string]any{
				"field":       field,
				"value":       fmt.Sprintf("%v", v),
				"actual_type": fmt.Sprintf("%T", v),
				"expected":    r.kind.Expected(),
			})
	}

	if !r.kind.numeric() {
		return nil
	}

	if r.min != nil && num < *r.min {
		return rangeError(field, v, fmt.Sprintf("Expected %v to be at least %v", v, *r.min))
	}
	if r.max != nil && num > *r.max {
		return rangeError(field, v, fmt.Sprintf("Expected %v to be no more than %v", v, *r.max))
	}
	return nil
}

func rangeError(field string, v any, msg string) error {
	return errors.New(field+": "+msg, errors.CategoryValidation).
		WithTextCode(errs.CodeOutOfRange).
		WithMetadata(map[string]any{
			"field": field,
			"value": fmt.Sprintf("%v", v),
		})
}

// matches applies the type predicate. For numeric kinds it also returns the
// value widened to float64 for bound checks.
func (r Rule) matches(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)

	switch r.kind {
	case KindNumber:
		if n, ok := asInt(rv); ok {
			return n, true
		}
		return asFloat(rv)
	case KindInt:
		return asInt(rv)
	case KindFloat:
		return asFloat(rv)
	case KindString:
		return 0, rv.Kind() == reflect.String
	case KindBool:
		return 0, rv.Kind() == reflect.Bool
	case KindCallable:
		return 0, rv.Kind() == reflect.Func && !rv.IsNil()
	case KindObject:
		_, ok := v.(Described)
		return 0, ok
	}
	return 0, false
}

func asInt(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func asFloat(rv reflect.Value) (float64, bool) {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
