package config

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/object"
)

// ValueKind tags a registered path value.
type ValueKind string

const (
	// ProjectRelativePath values are joined with the project directory and
	// stored absolute.
	ProjectRelativePath ValueKind = "project_relative_path"
	// AbsolutePath values are stored verbatim.
	AbsolutePath ValueKind = "absolute_path"
)

// PathValue is a tagged registration value. Any two element slice or
// array, [2]string and []any included, is read as a (value, kind) pair as
// well. Slices of other lengths are stored as is.
type PathValue struct {
	Value string
	Kind  ValueKind
}

func RelativePath(p string) PathValue {
	return PathValue{Value: p, Kind: ProjectRelativePath}
}

func AbsPath(p string) PathValue {
	return PathValue{Value: p, Kind: AbsolutePath}
}

// RegisterFrameworkConfigDefaults stores mapping as framework defaults.
// Every entry is resolved before anything is written, so a rejected entry
// leaves the configuration unmodified. prefix does not namespace the keys;
// it is reported by Source as their origin. Later registrations win over
// earlier ones.
//
// The store nests on ".", so a name that extends or is extended by another
// option, A and A.B, is rejected with INVALID_REGISTRATION.
//
// Stored values go through the solver chain like every other layer:
// "${PROJECT_DIR}/data", "@file://..." and "@base64://..." are replaced by
// what they reference. Use WithSolvers() to keep them verbatim.
func (c *RefConfig) RegisterFrameworkConfigDefaults(prefix string, mapping map[string]any) error {
	if len(mapping) == 0 {
		return nil
	}

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	resolved := make(map[string]any, len(mapping))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return object.NewError(c, errors.CategoryBadInput, errs.CodeInvalidRegistration,
				"Option names cannot be empty.")
		}
		if badSegments(name) {
			return object.NewError(c, errors.CategoryBadInput, errs.CodeInvalidRegistration,
				fmt.Sprintf("%s has an empty %q separated segment.", name, DefaultDelimiter))
		}
		if IsReserved(name) {
			return object.NewError(c, errors.CategoryBadInput, errs.CodeReservedOption,
				fmt.Sprintf("%s is derived from the project directory and cannot be registered.", name))
		}

		v, err := c.resolveValue(name, mapping[name])
		if err != nil {
			return err
		}
		resolved[name] = v
		c.logger.Debug("registering %s=%v from %s", name, v, prefix)
	}

	if err := c.checkNesting(names); err != nil {
		return err
	}

	return c.Use(context.Background(), RegisteredValuesProvider(prefix, resolved, names))
}

func (c *RefConfig) resolveValue(name string, v any) (any, error) {
	switch t := v.(type) {
	case PathValue:
		return c.resolvePath(name, t.Value, t.Kind)
	case [2]string:
		return c.resolvePath(name, t[0], ValueKind(t[1]))
	case [2]any:
		var kind ValueKind
		switch k := t[1].(type) {
		case ValueKind:
			kind = k
		case string:
			kind = ValueKind(k)
		default:
			return nil, c.unrecognized(name, fmt.Sprint(t[1]))
		}
		if kind == AbsolutePath {
			return t[0], nil
		}
		raw, ok := t[0].(string)
		if !ok && kind == ProjectRelativePath {
			return nil, object.NewError(c, errors.CategoryBadInput, errs.CodeInvalidRegistration,
				fmt.Sprintf("%s: a project relative path must be a string, got %T.", name, t[0]))
		}
		return c.resolvePath(name, raw, kind)
	default:
		if first, kind, ok := pair(v); ok {
			return c.resolveValue(name, [2]any{first, kind})
		}
		return v, nil
	}
}

// pair splits a two element slice or array.
func pair(v any) (any, any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, nil, false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 2 {
			return rv.Index(0).Interface(), rv.Index(1).Interface(), true
		}
	}
	return nil, nil, false
}

func badSegments(name string) bool {
	for _, seg := range strings.Split(name, DefaultDelimiter) {
		if seg == "" {
			return true
		}
	}
	return false
}

// nested reports whether one name is a parent of the other in the store.
func nested(a, b string) bool {
	return strings.HasPrefix(b, a+DefaultDelimiter) || strings.HasPrefix(a, b+DefaultDelimiter)
}

// checkNesting rejects names that would turn an option into a map, or a map
// into an option, when merged into the store.
func (c *RefConfig) checkNesting(names []string) error {
	existing := c.Keys()
	for i, name := range names {
		others := append(append([]string{}, existing...), names[i+1:]...)
		for _, other := range others {
			if nested(name, other) {
				return object.NewError(c, errors.CategoryBadInput, errs.CodeInvalidRegistration,
					fmt.Sprintf("%s and %s cannot both be options, one nests inside the other.", name, other))
			}
		}
	}
	return nil
}

func (c *RefConfig) resolvePath(name, raw string, kind ValueKind) (any, error) {
	switch kind {
	case ProjectRelativePath:
		abs, err := filepath.Abs(filepath.Join(c.projectDir, raw))
		if err != nil {
			return nil, object.WrapError(c, err, errors.CategoryBadInput, errs.CodeInvalidRegistration,
				fmt.Sprintf("%s: cannot make %s absolute.", name, raw))
		}
		return abs, nil
	case AbsolutePath:
		return raw, nil
	default:
		return nil, c.unrecognized(name, string(kind))
	}
}

func (c *RefConfig) unrecognized(name, kind string) error {
	c.logger.Error("%s has an unrecognized value type %q", name, kind)
	return object.NewError(c, errors.CategoryBadInput, errs.CodeUnrecognizedValueType,
		"Unrecognized config value type. "+kind)
}
