// Package object provides the base every domain entity embeds: class
// identity, a logical object name, and append-only trace breadcrumbs used
// to enrich error messages.
package object

import (
	"reflect"

	"github.com/goliatone/go-tarkash/attr"
)

// NotSet is the object name used when the caller supplies none.
const NotSet = "NOT_SET"

// Object is the read surface shared by every domain entity.
type Object interface {
	attr.Described
	Traces() []string
	Meta() Meta
}

type settings struct {
	name          string
	immutableName bool
}

type Option func(*settings)

// WithName sets the logical object name.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithImmutableName rejects SetObjectName once the object is built.
func WithImmutableName() Option {
	return func(s *settings) {
		s.immutableName = true
	}
}

// Base is embedded by domain entities. Build it with New, passing the
// embedding value so the class name reflects the concrete type.
type Base struct {
	className  string
	objectName *attr.Field
	traces     []string
}

func New(owner any, opts ...Option) *Base {
	s := settings{name: NotSet}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	fieldOpts := []attr.FieldOption{attr.WithOwner(owner)}
	if s.immutableName {
		fieldOpts = append(fieldOpts, attr.Immutable())
	}

	b := &Base{
		className:  qualifiedName(owner),
		objectName: attr.New("object_name", attr.String(), fieldOpts...),
	}
	// a string always satisfies the rule on first assignment
	_ = b.objectName.Set(s.name)
	return b
}

func qualifiedName(owner any) string {
	t := reflect.TypeOf(owner)
	if t == nil {
		return NotSet
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func (b *Base) ClassName() string {
	return b.className
}

func (b *Base) ObjectName() string {
	name, _ := attr.Value[string](b.objectName)
	return name
}

// SetObjectName fails with IMMUTABLE_FIELD when built WithImmutableName.
func (b *Base) SetObjectName(name string) error {
	return b.objectName.Set(name)
}

// Traces returns a copy of the breadcrumbs appended so far.
func (b *Base) Traces() []string {
	out := make([]string, len(b.traces))
	copy(out, b.traces)
	return out
}

func (b *Base) AppendTrace(message string) {
	b.traces = append(b.traces, message)
}

func (b *Base) Meta() Meta {
	return Meta{
		{Key: "object_name", Value: b.ObjectName()},
		{Key: "class", Value: b.ClassName()},
	}
}

func (b *Base) String() string {
	return b.Meta().String()
}
