package solvers

import (
	"strings"

	"github.com/knadh/koanf/v2"
)

// maxPasses bounds chained references such as A=${B}, B=${C}.
const maxPasses = 8

type variables struct {
	delims *delimiters
}

// NewVariablesSolver replaces references to other options. A value made of a
// single reference takes the referenced value as is, keeping its type.
// References embedded in longer strings are rendered with ToString. Unknown
// references are left untouched.
func NewVariablesSolver(s, e string) ConfigSolver {
	return &variables{
		delims: &delimiters{
			Start: s,
			End:   e,
		},
	}
}

// Solve substitutes references until a pass changes nothing.
func (s variables) Solve(k *koanf.Koanf) *koanf.Koanf {
	if k == nil {
		return k
	}

	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for key, val := range k.All() {
			v2, ok := val.(string)
			if !ok {
				continue
			}
			if s.keypath(key, v2, k) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return k
}

func (s variables) keypath(key, val string, k *koanf.Koanf) bool {
	if path, ok := s.whole(val); ok {
		if path == key || !k.Exists(path) {
			return false
		}
		newVal := k.Get(path)
		if str, isStr := newVal.(string); isStr && str == val {
			return false
		}
		k.Set(key, newVal)
		return true
	}

	out, replaced := s.replaceAll(key, val, k)
	if !replaced {
		return false
	}
	k.Set(key, out)
	return true
}

// whole reports whether val is exactly one reference.
func (s variables) whole(val string) (string, bool) {
	if !strings.HasPrefix(val, s.delims.Start) || !strings.HasSuffix(val, s.delims.End) {
		return "", false
	}
	path := val[len(s.delims.Start) : len(val)-len(s.delims.End)]
	if path == "" || strings.Contains(path, s.delims.Start) || strings.Contains(path, s.delims.End) {
		return "", false
	}
	return path, true
}

func (s variables) replaceAll(key, input string, k *koanf.Koanf) (string, bool) {
	var b strings.Builder
	replaced := false
	rest := input

	for {
		startIndex := strings.Index(rest, s.delims.Start)
		if startIndex == -1 {
			break
		}
		open := startIndex + len(s.delims.Start)
		endIndex := strings.Index(rest[open:], s.delims.End)
		if endIndex == -1 {
			break
		}
		endIndex += open

		path := rest[open:endIndex]
		b.WriteString(rest[:startIndex])
		if path != "" && path != key && k.Exists(path) {
			b.WriteString(ToString(k.Get(path)))
			replaced = true
		} else {
			b.WriteString(rest[startIndex : endIndex+len(s.delims.End)])
		}
		rest = rest[endIndex+len(s.delims.End):]
	}
	b.WriteString(rest)

	return b.String(), replaced
}
