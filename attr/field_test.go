package attr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type described struct{ name string }

func (d described) ClassName() string  { return "attr.described" }
func (d described) ObjectName() string { return d.name }

func TestField_RoundTrip(t *testing.T) {
	fn := func(s string) string { return s }

	tests := []struct {
		name  string
		rule  Rule
		value any
	}{
		{"number int", Number(), 42},
		{"number float", Number(), 4.2},
		{"int", Int(), int64(-7)},
		{"uint", Int(), uint8(7)},
		{"float", Float(), float32(1.5)},
		{"string", String(), "hello"},
		{"empty string", String(), ""},
		{"bool", Bool(), false},
		{"callable", Callable(), fn},
		{"object", Object(), described{name: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("field", tt.rule)
			require.NoError(t, f.Set(tt.value))
			got, err := f.Get()
			require.NoError(t, err)
			if tt.rule.Kind() == KindCallable {
				assert.NotNil(t, got)
				return
			}
			assert.Equal(t, tt.value, got)
			assert.True(t, f.IsSet())
		})
	}
}

func TestField_TypeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		rule       Rule
		value      any
		actualType string
	}{
		{"string into int", Int(), "12", "string"},
		{"float into int", Int(), 1.0, "float64"},
		{"int into float", Float(), 1, "int"},
		{"bool into number", Number(), true, "bool"},
		{"int into string", String(), 5, "int"},
		{"string into bool", Bool(), "true", "string"},
		{"string into callable", Callable(), "noop", "string"},
		{"string into object", Object(), "obj", "string"},
		{"nil into string", String(), nil, "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New("retries", tt.rule)
			err := f.Set(tt.value)
			require.Error(t, err)
			assert.True(t, errs.HasCode(err, errs.CodeTypeMismatch))

			msg := err.Error()
			assert.Contains(t, msg, "retries")
			assert.Contains(t, msg, ">>"+tt.actualType+"<<")
			assert.Contains(t, msg, tt.rule.Kind().Expected())
			assert.False(t, f.IsSet())
		})
	}
}

func TestField_Bounds(t *testing.T) {
	rule := Int(Min(1), Max(10))

	for _, v := range []int{1, 5, 10} {
		f := New("count", rule)
		assert.NoError(t, f.Set(v), "value %d is in range", v)
	}

	for _, v := range []int{0, 11} {
		f := New("count", rule)
		err := f.Set(v)
		require.Error(t, err, "value %d is out of range", v)
		assert.True(t, errs.HasCode(err, errs.CodeOutOfRange))
	}

	err := New("count", rule).Set(0)
	assert.Contains(t, err.Error(), "Expected 0 to be at least 1")
	err = New("count", rule).Set(11)
	assert.Contains(t, err.Error(), "Expected 11 to be no more than 10")
}

func TestField_FloatBounds(t *testing.T) {
	rule := Number(Min(-0.5), Max(0.5))
	f := New("ratio", rule)

	assert.NoError(t, f.Set(0.5))
	assert.NoError(t, f.Set(-0.5))
	assert.True(t, errs.HasCode(f.Set(0.51), errs.CodeOutOfRange))

	v, err := Value[float64](f)
	require.NoError(t, err)
	assert.Equal(t, -0.5, v, "failed set keeps the previous value")
}

func TestField_BoundsIgnoredForNonNumeric(t *testing.T) {
	rule := newRule(KindString, Min(3))
	_, hasMin := rule.Min()
	assert.False(t, hasMin)
	assert.NoError(t, New("s", rule).Set("a"))
}

func TestField_Immutable(t *testing.T) {
	f := New("path", String(), Immutable())
	require.NoError(t, f.Set("/first"))

	err := f.Set("/second")
	require.Error(t, err)
	assert.True(t, errs.HasCode(err, errs.CodeImmutable))
	assert.Contains(t, err.Error(), "path is immutable")

	// immutability is checked before the type predicate
	err = f.Set(12)
	assert.True(t, errs.HasCode(err, errs.CodeImmutable))

	v, err := Value[string](f)
	require.NoError(t, err)
	assert.Equal(t, "/first", v)
}

func TestField_ImmutableFirstAssignmentMustBeValid(t *testing.T) {
	f := New("path", String(), Immutable())
	assert.True(t, errs.HasCode(f.Set(1), errs.CodeTypeMismatch))
	assert.NoError(t, f.Set("/ok"), "an invalid first write does not consume the assignment")
}

func TestField_ImmutablePerInstance(t *testing.T) {
	rule := String()
	a := New("name", rule, Immutable())
	b := New("name", rule, Immutable())

	require.NoError(t, a.Set("a"))
	assert.NoError(t, b.Set("b"))
}

func TestField_MutableReassignment(t *testing.T) {
	f := New("name", String())
	require.NoError(t, f.Set("a"))
	require.NoError(t, f.Set("b"))
	v, err := Value[string](f)
	require.NoError(t, err)
	assert.Equal(t, "b", v)
}

func TestField_GetBeforeSet(t *testing.T) {
	f := New("name", String())
	_, err := f.Get()
	assert.True(t, errs.HasCode(err, errs.CodeFieldNotSet))
}

func TestValue_WrongType(t *testing.T) {
	f := New("n", Number())
	require.NoError(t, f.Set(3))
	_, err := Value[float64](f)
	assert.True(t, errs.HasCode(err, errs.CodeTypeMismatch))
}

func TestField_TracesAccess(t *testing.T) {
	var buf bytes.Buffer
	l, err := logger.NewLogger("attr", logger.WithConsoleWriter(&buf), logger.WithConsoleLevel(logger.LevelTrace))
	require.NoError(t, err)

	owner := &described{name: "owner"}
	f := New("name", String(), WithLogger(l), WithOwner(owner))
	require.NoError(t, f.Set("v1"))
	_, _ = f.Get()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[TRACE]")
	assert.Contains(t, lines[0], "field=name")
	assert.Contains(t, lines[0], "*attr.described")
	assert.Contains(t, lines[0], "value=v1")
}
