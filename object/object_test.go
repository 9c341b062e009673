package object

import (
	"strings"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	*Base
	size int
}

func newWidget(opts ...Option) *widget {
	w := &widget{size: 3}
	w.Base = New(w, opts...)
	return w
}

func (w *widget) Meta() Meta {
	return MergeProperties(w.Base, Meta{{Key: "size", Value: w.size}})
}

func TestNew_Identity(t *testing.T) {
	w := newWidget()
	assert.Equal(t, "github.com/goliatone/go-tarkash/object.widget", w.ClassName())
	assert.Equal(t, NotSet, w.ObjectName())

	named := newWidget(WithName("primary"))
	assert.Equal(t, "primary", named.ObjectName())
}

func TestNew_NilOwner(t *testing.T) {
	assert.Equal(t, NotSet, New(nil).ClassName())
}

func TestSetObjectName(t *testing.T) {
	w := newWidget(WithName("a"))
	require.NoError(t, w.SetObjectName("b"))
	assert.Equal(t, "b", w.ObjectName())

	frozen := newWidget(WithName("a"), WithImmutableName())
	err := frozen.SetObjectName("b")
	assert.True(t, errs.HasCode(err, errs.CodeImmutable))
	assert.Equal(t, "a", frozen.ObjectName())
}

func TestTraces_Snapshot(t *testing.T) {
	w := newWidget()
	w.AppendTrace("first")
	snap := w.Traces()
	w.AppendTrace("second")
	snap[0] = "mutated"

	assert.Equal(t, []string{"first", "second"}, w.Traces())
	assert.Len(t, snap, 1)
}

func TestMeta(t *testing.T) {
	w := newWidget(WithName("w1"))

	base := w.Base.Meta()
	assert.Equal(t, []string{"object_name", "class"}, base.Keys())

	merged := w.Meta()
	assert.Equal(t, []string{"object_name", "class", "size"}, merged.Keys())
	size, ok := merged.Get("size")
	assert.True(t, ok)
	assert.Equal(t, 3, size)
}

func TestMergeProperties_CallerWins(t *testing.T) {
	w := newWidget(WithName("w1"))
	merged := MergeProperties(w.Base, Meta{{Key: "object_name", Value: "override"}, {Key: "extra", Value: true}})

	assert.Equal(t, []string{"object_name", "class", "extra"}, merged.Keys())
	name, _ := merged.Get("object_name")
	assert.Equal(t, "override", name)
	assert.Equal(t, "w1", w.ObjectName(), "source object untouched")
}

func TestString(t *testing.T) {
	w := newWidget(WithName("w1"))
	want := "Object Properties:\n" +
		"Object_Name: w1\n" +
		"Class: github.com/goliatone/go-tarkash/object.widget\n"
	assert.Equal(t, want, w.Base.String())
	assert.True(t, strings.HasSuffix(w.Meta().String(), "Size: 3\n"))
}

func TestNewError(t *testing.T) {
	w := newWidget(WithName("w1"))
	w.AppendTrace("Checking things")
	w.AppendTrace("   ")
	w.AppendTrace("Done!")

	err := NewError(w, errors.CategoryValidation, errs.CodeIncorrectFilePath, "Broken.")
	assert.Contains(t, err.Error(),
		"github.com/goliatone/go-tarkash/object.widget::w1:: Broken. Additional Info: Checking things. Done!")
	assert.Equal(t, errs.CodeIncorrectFilePath, errs.Code(err))
	assert.Equal(t, "w1", err.Metadata["object_name"])
	assert.Equal(t, 3, err.Metadata["size"])
}

func TestNewError_NoTraces(t *testing.T) {
	w := newWidget()
	err := NewError(w, errors.CategoryOperation, errs.CodeFileIO, "boom")
	assert.NotContains(t, err.Error(), "Additional Info")
}

func TestNewCorruptStateError(t *testing.T) {
	w := newWidget()
	err := NewCorruptStateError(w, "Rebuild it.")
	assert.True(t, errs.HasCode(err, errs.CodeCorruptState))
	assert.Contains(t, err.Error(), "There is a state issue.")
}
