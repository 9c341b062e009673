package config

import (
	"context"
	goerrors "errors"
	"io/fs"
	"sort"
	"strings"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ProviderBuilder binds a layer to the configuration that loads it.
type ProviderBuilder func(*RefConfig) (Provider, error)

// Provider is one layer of a RefConfig. Layers load in ascending Priority,
// so the later layer wins when two define the same option.
type Provider interface {
	Type() ProviderType
	Priority() int
	// Source is reported by RefConfig.Source for the options of the layer.
	Source() string
	// Keys are the options the layer declares before loading, in
	// definition order. Nil means whatever the load produced.
	Keys() []string
	Validate() error
	Load(context.Context, *koanf.Koanf) error
}

type ProviderType string

const (
	ProviderTypeDefault    ProviderType = "default"
	ProviderTypeStruct     ProviderType = "struct"
	ProviderTypeLocalFile  ProviderType = "file"
	ProviderTypeRegistered ProviderType = "registered"
	ProviderTypeFlag       ProviderType = "pflag"
)

var providerTypes = map[ProviderType]struct{}{
	ProviderTypeDefault:    {},
	ProviderTypeStruct:     {},
	ProviderTypeLocalFile:  {},
	ProviderTypeRegistered: {},
	ProviderTypeFlag:       {},
}

func (t ProviderType) String() string {
	return string(t)
}

func (t ProviderType) validate() error {
	if _, ok := providerTypes[t]; ok {
		return nil
	}
	valid := make([]string, 0, len(providerTypes))
	for v := range providerTypes {
		valid = append(valid, string(v))
	}
	sort.Strings(valid)
	return errors.New("invalid loader type", errors.CategoryValidation).
		WithTextCode("INVALID_LOADER_TYPE").
		WithMetadata(map[string]any{
			"loader_type": string(t),
			"valid_types": valid,
		})
}

// Priority orders layers. Environment variables are not a layer: they are
// consulted on every lookup and beat all of them.
type Priority int

const (
	PriorityDefaults   Priority = 0
	PriorityStruct     Priority = 10
	PriorityConfig     Priority = 20
	PriorityRegistered Priority = 30
	PriorityFlags      Priority = 40
)

// WithOffset places a layer next to a standard one:
//
//	rc.Use(ctx, FileProvider("conf/project.local.toml", int(PriorityConfig.WithOffset(5))))
func (p Priority) WithOffset(offset int) Priority {
	return p + Priority(offset)
}

func (p Priority) or(order []int) int {
	if len(order) > 0 {
		return order[0]
	}
	return int(p)
}

// Loader is the Provider every builder in this package returns.
type Loader struct {
	order        int
	providerType ProviderType
	source       string
	keys         []string
	load         func(context.Context, *koanf.Koanf) error
}

func (l *Loader) Type() ProviderType { return l.providerType }
func (l *Loader) Priority() int      { return l.order }
func (l *Loader) Source() string     { return l.source }
func (l *Loader) Keys() []string     { return l.keys }
func (l *Loader) Validate() error    { return l.providerType.validate() }

func (l *Loader) Load(ctx context.Context, k *koanf.Koanf) error {
	return l.load(ctx, k)
}

// loadFailed wraps an error from a koanf provider with the layer it came from.
func loadFailed(err error, what string, meta map[string]any) error {
	return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from "+what).
		WithTextCode(errs.CodeConfigLoadFailed).
		WithMetadata(meta)
}

func invalidProvider(msg, code string) ProviderBuilder {
	return func(*RefConfig) (Provider, error) {
		return nil, errors.New(msg, errors.CategoryBadInput).WithTextCode(code)
	}
}

// DefaultValuesProvider loads a flat option map. keys fixes the order in
// which the options are reported by RefConfig.Keys.
func DefaultValuesProvider(source string, values map[string]any, keys []string, order ...int) ProviderBuilder {
	return valuesProvider(ProviderTypeDefault, PriorityDefaults.or(order), source, values, keys)
}

// RegisteredValuesProvider holds one RegisterFrameworkConfigDefaults call.
// prefix becomes the source of its options.
func RegisteredValuesProvider(prefix string, values map[string]any, keys []string, order ...int) ProviderBuilder {
	return valuesProvider(ProviderTypeRegistered, PriorityRegistered.or(order), prefix, values, keys)
}

func valuesProvider(pt ProviderType, order int, source string, values map[string]any, keys []string) ProviderBuilder {
	return func(c *RefConfig) (Provider, error) {
		return &Loader{
			providerType: pt,
			order:        order,
			source:       source,
			keys:         keys,
			load: func(_ context.Context, k *koanf.Koanf) error {
				if err := k.Load(confmap.Provider(values, DefaultDelimiter), nil); err != nil {
					return loadFailed(err, "option values", map[string]any{
						"source": source,
						"count":  len(values),
					})
				}
				return nil
			},
		}, nil
	}
}

// FileProvider loads a yaml, toml or json project file, picking the parser
// from the extension.
func FileProvider(path string, order ...int) ProviderBuilder {
	ft := fileTypeOf(path)
	if err := ft.Valid(); err != nil {
		return func(*RefConfig) (Provider, error) { return nil, err }
	}

	return func(c *RefConfig) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeLocalFile,
			order:        PriorityConfig.or(order),
			source:       path,
			load: func(_ context.Context, k *koanf.Koanf) error {
				c.logger.Debug("loading %s file %s", ft, path)
				if err := k.Load(file.Provider(path), ft.Parser()); err != nil {
					return loadFailed(err, "file", map[string]any{
						"filepath":  path,
						"file_type": string(ft),
					})
				}
				return nil
			},
		}, nil
	}
}

// FlagOptionName maps a flag name to an option name: log-console-level
// becomes LOG_CONSOLE_LEVEL.
func FlagOptionName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// FlagsProvider loads the flags the user changed. Flags left at their
// default never shadow lower layers.
func FlagsProvider(flags *pflag.FlagSet, order ...int) ProviderBuilder {
	if flags == nil {
		return invalidProvider("flagset cannot be nil", "NIL_FLAGSET")
	}

	return func(c *RefConfig) (Provider, error) {
		var keys []string
		flags.Visit(func(f *pflag.Flag) {
			keys = append(keys, FlagOptionName(f.Name))
		})

		return &Loader{
			providerType: ProviderTypeFlag,
			order:        PriorityFlags.or(order),
			source:       flags.Name(),
			keys:         keys,
			load: func(_ context.Context, k *koanf.Koanf) error {
				c.logger.Debug("loading changed flags %v", keys)
				p := posflag.ProviderWithFlag(flags, DefaultDelimiter, nil, func(f *pflag.Flag) (string, any) {
					return FlagOptionName(f.Name), posflag.FlagVal(flags, f)
				})
				if err := k.Load(p, nil); err != nil {
					return loadFailed(err, "flags", map[string]any{"flagset": flags.Name()})
				}
				return nil
			},
		}, nil
	}
}

// StructProvider loads the koanf tagged fields of v.
func StructProvider(source string, v any, order ...int) ProviderBuilder {
	if v == nil {
		return invalidProvider("struct cannot be nil", "NIL_STRUCT")
	}

	return func(c *RefConfig) (Provider, error) {
		return &Loader{
			providerType: ProviderTypeStruct,
			order:        PriorityStruct.or(order),
			source:       source,
			load: func(_ context.Context, k *koanf.Koanf) error {
				c.logger.Debug("loading struct defaults from %s", source)
				if err := k.Load(structs.Provider(v, "koanf"), nil); err != nil {
					return loadFailed(err, "struct", map[string]any{"source": source})
				}
				return nil
			},
		}, nil
	}
}

// ErrorFilter reports whether a load error should be ignored.
type ErrorFilter func(err error) bool

// DefaultErrorFilter ignores the given errors, or missing files when none
// are given. Parse errors always surface.
func DefaultErrorFilter(ignored ...error) ErrorFilter {
	if len(ignored) == 0 {
		ignored = []error{fs.ErrNotExist, syscall.ENOENT}
	}
	return func(err error) bool {
		if err == nil {
			return false
		}
		for _, target := range ignored {
			if goerrors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// OptionalProvider loads p, swallowing the errors filter accepts,
// DefaultErrorFilter when none is given.
func OptionalProvider(p ProviderBuilder, filter ...ErrorFilter) ProviderBuilder {
	ignore := DefaultErrorFilter()
	if len(filter) > 0 && filter[0] != nil {
		ignore = filter[0]
	}

	return func(c *RefConfig) (Provider, error) {
		inner, err := p(c)
		if err != nil {
			return nil, err
		}
		return &Loader{
			providerType: inner.Type(),
			order:        inner.Priority(),
			source:       inner.Source(),
			keys:         inner.Keys(),
			load: func(ctx context.Context, k *koanf.Koanf) error {
				if err := inner.Load(ctx, k); err != nil && !ignore(err) {
					return err
				}
				return nil
			},
		}, nil
	}
}
