package cfgx

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"
)

// DefaultTagName matches the tag read by the struct provider, so one
// settings struct can both register defaults and receive resolved values.
const DefaultTagName = "koanf"

// Stage names a step of Build.
type Stage string

const (
	stageDefaults Stage = "defaults"
	stageDecode   Stage = "decode"
	stageValidate Stage = "validate"
)

var (
	ErrDefaults = errors.New("cfgx: defaults stage failed")
	ErrDecode   = errors.New("cfgx: decode stage failed")
	ErrValidate = errors.New("cfgx: validate stage failed")
	// ErrOption reports conflicting options, such as two validators.
	ErrOption = errors.New("cfgx: option configuration failed")
)

var stageSentinels = map[Stage]error{
	stageDefaults: ErrDefaults,
	stageDecode:   ErrDecode,
	stageValidate: ErrValidate,
}

// StageError is returned by Build. It matches the sentinel of its stage
// and the underlying cause with errors.Is.
type StageError struct {
	Stage Stage
	Err   error
	Meta  map[string]any
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{stageSentinels[e.Stage], e.Err}
}

func failed(stage Stage, err error, meta map[string]any) error {
	return &StageError{Stage: stage, Err: err, Meta: meta}
}

// builder carries the state of one Build call.
type builder[T any] struct {
	input    any
	defaults func() (T, error)
	required []string
	validate Validator[T]

	decoder  mapstructure.DecoderConfig
	hooks    []mapstructure.DecodeHookFunc
	useHooks bool

	errs []error
}

// Build decodes input, usually a resolved option view keyed by option
// name, into a T seeded from the configured defaults, then validates it.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	b := &builder[T]{
		input:    input,
		useHooks: true,
		decoder: mapstructure.DecoderConfig{
			TagName:          DefaultTagName,
			WeaklyTypedInput: true,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	var zero T
	if len(b.errs) > 0 {
		return zero, fmt.Errorf("%w: %w", ErrOption, errors.Join(b.errs...))
	}

	out, err := b.seed()
	if err != nil {
		return zero, err
	}
	if err := b.decode(&out); err != nil {
		return zero, err
	}
	if err := b.check(&out); err != nil {
		return zero, err
	}
	return out, nil
}

func (b *builder[T]) reject(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// seed returns a deep copy of the defaults so callers can reuse them.
func (b *builder[T]) seed() (T, error) {
	var zero T
	if b.defaults == nil {
		return zero, nil
	}
	v, err := b.defaults()
	if err != nil {
		return zero, failed(stageDefaults, err, nil)
	}
	dup, err := copystructure.Copy(v)
	if err != nil {
		return zero, failed(stageDefaults, err, map[string]any{"reason": "clone"})
	}
	out, ok := dup.(T)
	if !ok {
		return zero, failed(stageDefaults, fmt.Errorf("copy of %T came back as %T", v, dup), nil)
	}
	return out, nil
}

func (b *builder[T]) decode(out *T) error {
	cfg := b.decoder
	cfg.Result = target(out)
	cfg.DecodeHook = b.hook()

	dec, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return failed(stageDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := dec.Decode(b.input); err != nil {
		return failed(stageDecode, err, nil)
	}
	return nil
}

func (b *builder[T]) hook() mapstructure.DecodeHookFunc {
	var hooks []mapstructure.DecodeHookFunc
	if b.useHooks {
		hooks = append(hooks, DefaultDecodeHooks()...)
	}
	hooks = append(hooks, b.hooks...)

	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	default:
		return mapstructure.ComposeDecodeHookFunc(hooks...)
	}
}

// target returns what mapstructure should write into. A pointer T is
// allocated so that Build[*Settings] returns a usable value.
func target[T any](out *T) any {
	v := reflect.ValueOf(out).Elem()
	if v.Kind() != reflect.Ptr {
		return out
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Interface()
}

func (b *builder[T]) check(out *T) error {
	if missing := b.missing(); len(missing) > 0 {
		return failed(stageValidate, fmt.Errorf("missing required options %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing})
	}
	if b.validate == nil {
		return nil
	}
	if err := b.validate(out); err != nil {
		return failed(stageValidate, err, nil)
	}
	return nil
}

func (b *builder[T]) missing() []string {
	if len(b.required) == 0 {
		return nil
	}
	present := map[string]bool{}
	if m, ok := b.input.(map[string]any); ok {
		for k, v := range m {
			present[k] = v != nil
		}
	}
	var out []string
	for _, name := range b.required {
		if !present[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
