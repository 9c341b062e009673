package object

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tarkash/strutil"
)

type Property struct {
	Key   string
	Value any
}

// Meta is an ordered set of named properties.
type Meta []Property

func (m Meta) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// With returns a copy of m where key holds value. An existing key keeps its
// position.
func (m Meta) With(key string, value any) Meta {
	out := make(Meta, len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Property{Key: key, Value: value})
}

func (m Meta) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

func (m Meta) Map() map[string]any {
	out := make(map[string]any, len(m))
	for _, p := range m {
		out[p.Key] = p.Value
	}
	return out
}

func (m Meta) String() string {
	var b strings.Builder
	b.WriteString("Object Properties:\n")
	for _, p := range m {
		fmt.Fprintf(&b, "%s: %v\n", strutil.Title(p.Key), p.Value)
	}
	return b.String()
}

// MergeProperties combines the meta of obj with extra; extra wins on key
// collisions.
func MergeProperties(obj interface{ Meta() Meta }, extra Meta) Meta {
	out := obj.Meta()
	for _, p := range extra {
		out = out.With(p.Key, p.Value)
	}
	return out
}
