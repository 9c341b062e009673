package config

import (
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/cfgx"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/option"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/copystructure"
	"github.com/tidwall/sjson"
)

// Snapshot returns a deep copy of the resolved options keyed by flat name,
// environment overrides applied. Built-in options only set in the
// environment are included.
func (c *RefConfig) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot()
}

func (c *RefConfig) snapshot() map[string]any {
	flat := c.k.All()
	out, err := copystructure.Copy(flat)
	if err != nil {
		c.logger.Warn("snapshot copy failed, sharing values: %v", err)
		out = flat
	}
	snap := out.(map[string]any)

	names := append([]string{}, c.keys...)
	for _, o := range option.All() {
		names = append(names, o.Name())
	}
	for _, name := range names {
		if IsReserved(name) {
			continue
		}
		if v, ok := c.lookupEnv(name); ok {
			snap[name] = v
		}
	}
	return snap
}

// JSON renders the snapshot as a JSON object, keys in definition order
// followed by environment only options.
func (c *RefConfig) JSON() ([]byte, error) {
	c.mu.RLock()
	snap := c.snapshot()
	order := append([]string{}, c.keys...)
	c.mu.RUnlock()

	written := make(map[string]struct{}, len(snap))
	var rest []string
	for key := range snap {
		rest = append(rest, key)
	}
	sort.Strings(rest)

	out := []byte("{}")
	var err error
	for _, key := range append(order, rest...) {
		if _, done := written[key]; done {
			continue
		}
		v, ok := snap[key]
		if !ok {
			continue
		}
		written[key] = struct{}{}
		out, err = sjson.SetBytes(out, escapePath(key), v)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryOperation, "failed to render configuration").
				WithTextCode(errs.CodeConfigDecodeFailed).
				WithMetadata(map[string]any{"option": key})
		}
	}
	return out, nil
}

// escapePath keeps flat option names as single JSON keys.
func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(key)
}

// Decode builds a T from the resolved options, matching koanf struct tags
// against option names. Values are weakly typed, so environment strings
// decode into numbers, booleans, durations and logger levels.
func Decode[T any](c *RefConfig, opts ...cfgx.Option[T]) (T, error) {
	nested := koanf.New(DefaultDelimiter)
	if err := nested.Load(confmap.Provider(c.Snapshot(), DefaultDelimiter), nil); err != nil {
		var zero T
		return zero, errors.Wrap(err, errors.CategoryOperation, "failed to prepare configuration for decoding").
			WithTextCode(errs.CodeConfigDecodeFailed)
	}

	out, err := cfgx.Build[T](nested.Raw(), opts...)
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, errors.CategoryValidation, "failed to decode configuration").
			WithTextCode(errs.CodeConfigDecodeFailed).
			WithMetadata(map[string]any{
				"project_dir": c.ProjectDir(),
			})
	}
	return out, nil
}
