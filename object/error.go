package object

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/strutil"
)

// NewError builds an error whose message names the object and carries its
// traces:
//
//	<class>::<name>:: <message> Additional Info: <trace>. <trace>.
func NewError(obj Object, category errors.Category, code, message string) *errors.Error {
	return errors.New(formatMessage(obj, message), category).
		WithTextCode(code).
		WithMetadata(metadata(obj))
}

// WrapError is NewError keeping source in the chain.
func WrapError(obj Object, source error, category errors.Category, code, message string) *errors.Error {
	return errors.Wrap(source, category, formatMessage(obj, message)).
		WithTextCode(code).
		WithMetadata(metadata(obj))
}

// NewCorruptStateError reports a command or query on an object left half
// built by a previous failure the caller swallowed.
func NewCorruptStateError(obj Object, message string) *errors.Error {
	return NewError(obj, errors.CategoryOperation, errs.CodeCorruptState,
		"There is a state issue. Check your exception handling. "+message)
}

func formatMessage(obj Object, message string) string {
	var traces []string
	for _, t := range obj.Traces() {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		traces = append(traces, strutil.AppendDot(t))
	}

	msg := obj.ClassName() + "::" + obj.ObjectName() + ":: " + message
	if len(traces) > 0 {
		msg += " Additional Info: " + strings.Join(traces, " ")
	}
	return msg
}

func metadata(obj Object) map[string]any {
	md := obj.Meta().Map()
	if traces := obj.Traces(); len(traces) > 0 {
		md["traces"] = traces
	}
	return md
}
