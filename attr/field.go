package attr

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/logger"
)

var defaultLogger logger.Logger = logger.NewDefaultLogger("attr")

// Field is a validated slot owned by a single instance. Validation is
// delegated to a Rule; whether the slot was assigned lives on the Field
// itself.
type Field struct {
	name      string
	rule      Rule
	immutable bool
	owner     any
	log       logger.Logger

	value    any
	assigned bool
}

type FieldOption func(*Field)

// Immutable allows a single successful assignment.
func Immutable() FieldOption {
	return func(f *Field) {
		f.immutable = true
	}
}

// WithOwner sets the instance rendered in trace messages.
func WithOwner(owner any) FieldOption {
	return func(f *Field) {
		f.owner = owner
	}
}

func WithLogger(l logger.Logger) FieldOption {
	return func(f *Field) {
		if l != nil {
			f.log = l
		}
	}
}

// New declares a field validated by rule.
func New(name string, rule Rule, opts ...FieldOption) *Field {
	f := &Field{
		name: name,
		rule: rule,
		log:  defaultLogger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *Field) Name() string    { return f.name }
func (f *Field) Rule() Rule      { return f.rule }
func (f *Field) Immutable() bool { return f.immutable }
func (f *Field) IsSet() bool     { return f.assigned }

// Get returns the stored value, failing when nothing was assigned yet.
func (f *Field) Get() (any, error) {
	f.log.Trace("get called with field=%s, obj=%s, value=%v", f.name, f.ownerRepr(), f.value)
	if !f.assigned {
		return nil, errors.New(fmt.Sprintf("%s has not been set", f.name), errors.CategoryValidation).
			WithTextCode(errs.CodeFieldNotSet).
			WithMetadata(map[string]any{"field": f.name})
	}
	return f.value, nil
}

// Set validates and stores v. On an immutable field that already holds a
// value the call fails before v is inspected. A failed Set leaves the
// previous value untouched.
func (f *Field) Set(v any) error {
	f.log.Trace("set called with field=%s, obj=%s, value=%v", f.name, f.ownerRepr(), v)

	if f.immutable && f.assigned {
		return errors.New(fmt.Sprintf("%s is immutable", f.name), errors.CategoryValidation).
			WithTextCode(errs.CodeImmutable).
			WithMetadata(map[string]any{"field": f.name})
	}

	if err := f.rule.Validate(f.name, v); err != nil {
		return err
	}

	f.value = v
	f.assigned = true
	return nil
}

// Value reads f as a T.
func Value[T any](f *Field) (T, error) {
	var zero T
	v, err := f.Get()
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.New(
			fmt.Sprintf("%s: stored value >>%v<< of type >>%T<< is not a %T", f.name, v, v, zero),
			errors.CategoryValidation,
		).WithTextCode(errs.CodeTypeMismatch)
	}
	return out, nil
}

// ownerRepr renders the owner by type and address only, so it never calls
// back into the owner's accessors.
func (f *Field) ownerRepr() string {
	if f.owner == nil {
		return "<unowned>"
	}
	rv := reflect.ValueOf(f.owner)
	if rv.Kind() == reflect.Pointer {
		return fmt.Sprintf("<%T at %p>", f.owner, f.owner)
	}
	return fmt.Sprintf("<%T>", f.owner)
}
