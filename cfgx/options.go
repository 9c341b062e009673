package cfgx

import "github.com/go-viper/mapstructure/v2"

// Option configures a single Build call.
type Option[T any] func(*builder[T])

// Validator runs once decoding succeeded.
type Validator[T any] func(*T) error

// WithDefaults seeds the result with a copy of value. The last defaults
// option wins.
func WithDefaults[T any](value T) Option[T] {
	return WithDefaultFunc(func() (T, error) { return value, nil })
}

func WithDefaultFunc[T any](fn func() (T, error)) Option[T] {
	return func(b *builder[T]) {
		b.defaults = fn
	}
}

// WithRequired fails validation when an option name is absent from a map
// input or holds nil.
func WithRequired[T any](names ...string) Option[T] {
	return func(b *builder[T]) {
		b.required = append(b.required, names...)
	}
}

// WithDecoder exposes the mapstructure configuration. Result and
// DecodeHook are set by Build and overwritten.
func WithDecoder[T any](fn func(*mapstructure.DecoderConfig)) Option[T] {
	return func(b *builder[T]) {
		if fn != nil {
			fn(&b.decoder)
		}
	}
}

// WithDecodeHooks runs hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(b *builder[T]) {
		for _, h := range hooks {
			if h != nil {
				b.hooks = append(b.hooks, h)
			}
		}
	}
}

// WithStrictKeys fails the decode when the input holds options the target
// does not declare.
func WithStrictKeys[T any]() Option[T] {
	return WithDecoder[T](func(c *mapstructure.DecoderConfig) { c.ErrorUnused = true })
}

// WithWeakTyping toggles string to number and bool conversion. It is on by
// default since environment overrides are always strings.
func WithWeakTyping[T any](enabled bool) Option[T] {
	return WithDecoder[T](func(c *mapstructure.DecoderConfig) { c.WeaklyTypedInput = enabled })
}

func WithTagName[T any](tag string) Option[T] {
	return WithDecoder[T](func(c *mapstructure.DecoderConfig) {
		if tag != "" {
			c.TagName = tag
		}
	})
}

// WithValidator sets the validator. Passing a second one is an ErrOption.
func WithValidator[T any](v Validator[T]) Option[T] {
	return func(b *builder[T]) {
		switch {
		case v == nil:
		case b.validate != nil:
			b.reject("validator already registered")
		default:
			b.validate = v
		}
	}
}

func WithValidatorFunc[T any](v func(T) error) Option[T] {
	if v == nil {
		return nil
	}
	return WithValidator(func(cfg *T) error { return v(*cfg) })
}

func WithoutDefaultHooks[T any]() Option[T] {
	return func(b *builder[T]) {
		b.useHooks = false
	}
}
