package config

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/koanf/solvers"
	"github.com/goliatone/go-tarkash/logger"
)

type Option func(c *RefConfig) error

// WithLookupEnv replaces os.LookupEnv for environment overrides.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(c *RefConfig) error {
		if fn == nil {
			return errors.New("lookup function cannot be nil", errors.CategoryBadInput).
				WithTextCode("NIL_LOOKUP_ENV")
		}
		c.lookupEnv = fn
		return nil
	}
}

func WithLogger(logger logger.Logger) Option {
	return func(c *RefConfig) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithSolver appends solvers to the default chain.
func WithSolver(srcs ...solvers.ConfigSolver) Option {
	return func(c *RefConfig) error {
		c.extraSolvers = append(c.extraSolvers, srcs...)
		return nil
	}
}

// WithSolvers replaces the solver chain, allowing explicit ordering. Call
// it without arguments to disable solving.
func WithSolvers(srcs ...solvers.ConfigSolver) Option {
	return func(c *RefConfig) error {
		c.solvers = append([]solvers.ConfigSolver{}, srcs...)
		c.solversSet = true
		return nil
	}
}

// WithConfigFile adds a project configuration file, relative to the
// project directory unless absolute. A missing file is not an error.
func WithConfigFile(path string) Option {
	return func(c *RefConfig) error {
		if !filepath.IsAbs(path) {
			path = filepath.Join(c.projectDir, path)
		}
		return WithProvider(OptionalProvider(FileProvider(path)))(c)
	}
}

// WithFilesystem sets the filesystem @file:// references are read from.
// It defaults to the project directory on disk.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(c *RefConfig) error {
		c.fs = fs
		return nil
	}
}

func WithProvider(factories ...ProviderBuilder) Option {
	return func(c *RefConfig) error {
		for i, factory := range factories {
			if factory == nil {
				continue
			}
			provider, err := factory(c)
			if err != nil {
				return errors.Wrap(err, errors.CategoryOperation, "failed to create loader provider").
					WithTextCode("PROVIDER_CREATION_FAILED").
					WithMetadata(map[string]any{
						"factory_index":   i,
						"total_factories": len(factories),
					})
			}
			c.providers = append(c.providers, provider)
		}
		return nil
	}
}
