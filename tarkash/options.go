package tarkash

import (
	"github.com/goliatone/go-tarkash/config"
	"github.com/goliatone/go-tarkash/logger"
)

type settings struct {
	projectDir  string
	logger      logger.Logger
	dotEnv      string
	skipDotEnv  bool
	lookupEnv   func(string) (string, bool)
	configFiles []string
	configOpts  []config.Option
}

type Option func(*settings)

// WithProjectDir sets the project root, taking precedence over PROJECT_ROOT_DIR.
func WithProjectDir(dir string) Option {
	return func(s *settings) {
		s.projectDir = dir
	}
}

// WithLogger replaces the logger built from the LOG_* options.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithDotEnv loads path instead of searching for a .env file.
func WithDotEnv(path string) Option {
	return func(s *settings) {
		s.dotEnv = path
		s.skipDotEnv = false
	}
}

func WithoutDotEnv() Option {
	return func(s *settings) {
		s.skipDotEnv = true
	}
}

// WithLookupEnv replaces os.LookupEnv for the project root and every
// option override.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(s *settings) {
		if fn != nil {
			s.lookupEnv = fn
		}
	}
}

// WithConfigFile layers a project configuration file, relative to the
// project root unless absolute. Missing files are ignored.
func WithConfigFile(path string) Option {
	return func(s *settings) {
		s.configFiles = append(s.configFiles, path)
	}
}

// WithConfigOptions passes options through to config.NewRefConfig.
func WithConfigOptions(opts ...config.Option) Option {
	return func(s *settings) {
		s.configOpts = append(s.configOpts, opts...)
	}
}
