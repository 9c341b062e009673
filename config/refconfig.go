package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/koanf/solvers"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/goliatone/go-tarkash/object"
	"github.com/goliatone/go-tarkash/option"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

var (
	DefaultDelimiter       = "."
	DefaultConsoleLogLevel = "INFO"
	DefaultFileLogLevel    = "DEBUG"
	DefaultLogDirName      = "log"
	DefaultReportDirName   = "report"
)

const (
	// SourceBuiltIn is the provenance of the defaults derived from the project directory.
	SourceBuiltIn = "tarkash"
	// SourceEnv is reported by Source when an environment variable overrides the key.
	SourceEnv = "env"
)

// RefConfig resolves option names to values. Lookups prefer an environment
// variable of the same name, then the layered store: built-in project
// defaults, struct defaults, project files, registered framework defaults
// and changed flags, in ascending precedence. PROJECT_NAME and PROJECT_DIR
// always come from the store.
type RefConfig struct {
	*object.Base

	mu         sync.RWMutex
	k          *koanf.Koanf
	projectDir string
	providers  []Provider
	lookupEnv  func(string) (string, bool)
	logger     logger.Logger
	fs         billy.Filesystem

	solvers      []solvers.ConfigSolver
	solversSet   bool
	extraSolvers []solvers.ConfigSolver

	keys    []string
	seen    map[string]struct{}
	sources map[string]string
}

// NewRefConfig seeds a configuration for the project rooted at projectDir.
func NewRefConfig(projectDir string, opts ...Option) (*RefConfig, error) {
	if strings.TrimSpace(projectDir) == "" {
		return nil, errors.New("project directory is required", errors.CategoryBadInput).
			WithTextCode(errs.CodeMissingProjectDir)
	}

	c := &RefConfig{
		projectDir: projectDir,
		lookupEnv:  os.LookupEnv,
		logger:     logger.NewDefaultLogger("config"),
		seen:       map[string]struct{}{},
		sources:    map[string]string{},
	}
	c.Base = object.New(c, object.WithName(ProjectName(projectDir)), object.WithImmutableName())

	builtins, order := builtInDefaults(projectDir)
	if err := WithProvider(DefaultValuesProvider(SourceBuiltIn, builtins, order))(c); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.fs == nil {
		c.fs = osfs.New(projectDir)
	}
	if !c.solversSet {
		c.solvers = solvers.Defaults(c.fs, c.logger)
	}
	c.solvers = append(c.solvers, c.extraSolvers...)

	if err := c.rebuild(context.Background(), c.providers); err != nil {
		return nil, err
	}

	return c, nil
}

// ProjectName is the base name of the project directory.
func ProjectName(projectDir string) string {
	return filepath.Base(filepath.Clean(projectDir))
}

func builtInDefaults(projectDir string) (map[string]any, []string) {
	values := map[string]any{
		option.ProjectName.Name():     ProjectName(projectDir),
		option.ProjectDir.Name():      projectDir,
		option.LogConsoleLevel.Name(): DefaultConsoleLogLevel,
		option.LogFileLevel.Name():    DefaultFileLogLevel,
		option.LogDir.Name():          filepath.Join(projectDir, DefaultLogDirName),
		option.ReportDir.Name():       filepath.Join(projectDir, DefaultReportDirName),
	}
	order := []string{
		option.ProjectName.Name(),
		option.ProjectDir.Name(),
		option.LogConsoleLevel.Name(),
		option.LogFileLevel.Name(),
		option.LogDir.Name(),
		option.ReportDir.Name(),
	}
	return values, order
}

// IsReserved reports whether name is served from the store only and cannot
// be registered.
func IsReserved(name string) bool {
	return name == option.ProjectName.Name() || name == option.ProjectDir.Name()
}

func (c *RefConfig) ProjectDir() string {
	return c.projectDir
}

func (c *RefConfig) Logger() logger.Logger {
	return c.logger
}

func (c *RefConfig) Meta() object.Meta {
	return object.MergeProperties(c.Base, object.Meta{
		{Key: "project_dir", Value: c.projectDir},
	})
}

// Value resolves key.
func (c *RefConfig) Value(key option.Key) (any, error) {
	if key == nil {
		return nil, errors.New("option key cannot be nil", errors.CategoryBadInput).
			WithTextCode(errs.CodeOptionNotFound)
	}
	name := key.Name()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !IsReserved(name) {
		if v, ok := c.lookupEnv(name); ok {
			c.logger.Trace("option %s resolved from environment", name)
			return v, nil
		}
	}
	if c.k.Exists(name) {
		return c.k.Get(name), nil
	}

	return nil, object.NewError(c, errors.CategoryNotFound, errs.CodeOptionNotFound,
		fmt.Sprintf("No value is defined for option %s.", name))
}

// ValueOf resolves an option by name.
func (c *RefConfig) ValueOf(name string) (any, error) {
	return c.Value(option.Of(name))
}

// StringValue resolves key and renders it as a string.
func (c *RefConfig) StringValue(key option.Key) (string, error) {
	v, err := c.Value(key)
	if err != nil {
		return "", err
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return solvers.ToString(v), nil
}

// Has reports whether key resolves to a value.
func (c *RefConfig) Has(key option.Key) bool {
	_, err := c.Value(key)
	return err == nil
}

// Source names the layer key currently resolves from.
func (c *RefConfig) Source(key option.Key) (string, bool) {
	if key == nil {
		return "", false
	}
	name := key.Name()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !IsReserved(name) {
		if _, ok := c.lookupEnv(name); ok {
			return SourceEnv, true
		}
	}
	src, ok := c.sources[name]
	return src, ok
}

// Keys lists the stored option names in the order they were first defined.
func (c *RefConfig) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// LoadFile layers a yaml, toml or json file over the struct defaults.
// Relative paths are resolved against the project directory. A missing
// file is ignored.
func (c *RefConfig) LoadFile(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.projectDir, path)
	}
	return c.Use(ctx, OptionalProvider(FileProvider(path)))
}

// LoadFlags layers the changed flags of fs on top of every other source.
func (c *RefConfig) LoadFlags(fs *pflag.FlagSet) error {
	return c.Use(context.Background(), FlagsProvider(fs))
}

// RegisterStruct layers the koanf tagged fields of v, recording prefix as
// their source.
func (c *RefConfig) RegisterStruct(prefix string, v any) error {
	return c.Use(context.Background(), StructProvider(prefix, v))
}

// Use adds layers and re-resolves the store. On failure the configuration
// is left as it was.
func (c *RefConfig) Use(ctx context.Context, factories ...ProviderBuilder) error {
	added := make([]Provider, 0, len(factories))
	for i, factory := range factories {
		if factory == nil {
			continue
		}
		p, err := factory(c)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create loader provider").
				WithTextCode("PROVIDER_CREATION_FAILED").
				WithMetadata(map[string]any{
					"factory_index":   i,
					"total_factories": len(factories),
				})
		}
		added = append(added, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	providers := append(append([]Provider{}, c.providers...), added...)
	if err := c.rebuild(ctx, providers); err != nil {
		return err
	}
	return nil
}

// Reload reads every layer again, picking up edited files.
func (c *RefConfig) Reload(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuild(ctx, c.providers)
}

// rebuild loads providers into a fresh store and commits it, together with
// the provider list, only when every layer loaded. Callers hold the write
// lock, except during construction.
func (c *RefConfig) rebuild(ctx context.Context, providers []Provider) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for i, src := range providers {
		if err := src.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid provider source type").
				WithTextCode("INVALID_PROVIDER_TYPE").
				WithMetadata(map[string]any{
					"source_type":    string(src.Type()),
					"provider_index": i,
				})
		}
	}

	sorted := append([]Provider{}, providers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	k := koanf.New(DefaultDelimiter)
	sources := make(map[string]string)
	var declared []string

	for i, source := range sorted {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "configuration load cancelled").
				WithTextCode(errs.CodeConfigLoadFailed)
		}

		c.logger.Debug("= loading source type=%s source=%s", source.Type(), source.Source())
		layer := koanf.New(DefaultDelimiter)
		if err := source.Load(ctx, layer); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to load configuration from source").
				WithTextCode(errs.CodeConfigLoadFailed).
				WithMetadata(map[string]any{
					"source_type":   string(source.Type()),
					"source":        source.Source(),
					"source_index":  i,
					"total_sources": len(sorted),
				})
		}
		if err := k.Merge(layer); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to merge configuration layer").
				WithTextCode(errs.CodeConfigLoadFailed).
				WithMetadata(map[string]any{
					"source_type": string(source.Type()),
					"source":      source.Source(),
				})
		}

		keys := source.Keys()
		if len(keys) == 0 {
			keys = layer.Keys()
		}
		for _, key := range keys {
			if !layer.Exists(key) {
				continue
			}
			sources[key] = source.Source()
			declared = append(declared, key)
		}
	}

	for _, solver := range c.solvers {
		k = solver.Solve(k)
	}

	// providers never go away, so keys only accumulate
	for _, p := range providers {
		for _, key := range p.Keys() {
			c.remember(key, sources)
		}
	}
	for _, key := range declared {
		c.remember(key, sources)
	}

	c.k = k
	c.providers = providers
	c.sources = sources
	return nil
}

func (c *RefConfig) remember(key string, sources map[string]string) {
	if _, ok := sources[key]; !ok {
		return
	}
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.keys = append(c.keys, key)
}
