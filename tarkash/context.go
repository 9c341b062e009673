package tarkash

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/cfgx"
	"github.com/goliatone/go-tarkash/config"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/goliatone/go-tarkash/option"
)

// ProjectRootEnv names the variable holding the project root when none is
// passed explicitly.
const ProjectRootEnv = "PROJECT_ROOT_DIR"

// DefaultLogName is the log file name used when LOG_NAME is not set.
var DefaultLogName = "tarkash.log"

// LogSettings are the LOG_* options the framework logger is built from.
type LogSettings struct {
	ConsoleLevel logger.Level `koanf:"LOG_CONSOLE_LEVEL"`
	FileLevel    logger.Level `koanf:"LOG_FILE_LEVEL"`
	Dir          string       `koanf:"LOG_DIR"`
	Name         string       `koanf:"LOG_NAME"`
}

// File returns the log file path.
func (s LogSettings) File() string {
	name := s.Name
	if name == "" {
		name = DefaultLogName
	}
	return filepath.Join(s.Dir, name)
}

// Context owns the reference configuration and the framework logger.
type Context struct {
	refConfig *config.RefConfig
	logger    logger.Logger
	closer    io.Closer
}

// New loads the environment, resolves the project root and builds the
// reference configuration and the logger.
func New(opts ...Option) (*Context, error) {
	s := &settings{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if !s.skipDotEnv {
		if err := loadDotEnv(s.dotEnv); err != nil {
			return nil, err
		}
	}

	projectDir, err := resolveProjectDir(s)
	if err != nil {
		return nil, err
	}

	cfgOpts := []config.Option{config.WithLookupEnv(s.lookupEnv)}
	if s.logger != nil {
		cfgOpts = append(cfgOpts, config.WithLogger(s.logger))
	}
	for _, f := range s.configFiles {
		if !filepath.IsAbs(f) {
			f = filepath.Join(projectDir, f)
		}
		cfgOpts = append(cfgOpts, config.WithConfigFile(f))
	}
	cfgOpts = append(cfgOpts, s.configOpts...)

	rc, err := config.NewRefConfig(projectDir, cfgOpts...)
	if err != nil {
		return nil, err
	}

	c := &Context{refConfig: rc, logger: s.logger}
	if c.logger == nil {
		l, err := newLogger(rc)
		if err != nil {
			return nil, err
		}
		c.logger = l
		c.closer = l
	}

	c.logger.Info("tarkash initialised for project %s at %s", config.ProjectName(projectDir), projectDir)
	return c, nil
}

func resolveProjectDir(s *settings) (string, error) {
	if strings.TrimSpace(s.projectDir) != "" {
		return s.projectDir, nil
	}
	if dir, ok := s.lookupEnv(ProjectRootEnv); ok && strings.TrimSpace(dir) != "" {
		return dir, nil
	}
	return "", errors.New("project root directory is not set, pass WithProjectDir or export "+ProjectRootEnv,
		errors.CategoryBadInput).
		WithTextCode(errs.CodeMissingProjectDir).
		WithMetadata(map[string]any{"env": ProjectRootEnv})
}

func newLogger(rc *config.RefConfig) (*logger.DefaultLogger, error) {
	ls, err := config.Decode[LogSettings](rc, cfgx.WithDefaults(LogSettings{
		ConsoleLevel: logger.LevelInfo,
		FileLevel:    logger.LevelDebug,
	}))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid logging options").
			WithTextCode(errs.CodeLoggerSetupFailed)
	}

	l, err := logger.NewLogger("tarkash",
		logger.WithConsoleLevel(ls.ConsoleLevel),
		logger.WithFile(ls.File(), ls.FileLevel),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to open the log file").
			WithTextCode(errs.CodeLoggerSetupFailed).
			WithMetadata(map[string]any{"file": ls.File()})
	}
	return l, nil
}

func (c *Context) Logger() logger.Logger {
	return c.logger
}

func (c *Context) RefConfig() *config.RefConfig {
	return c.refConfig
}

// OptionValue resolves key through the reference configuration.
func (c *Context) OptionValue(key option.Key) (any, error) {
	return c.refConfig.Value(key)
}

// RegisterFrameworkConfigDefaults validates its arguments and delegates to
// the reference configuration.
func (c *Context) RegisterFrameworkConfigDefaults(prefix string, mapping map[string]any) error {
	if strings.TrimSpace(prefix) == "" {
		return errors.New("prefix must be a non-empty string", errors.CategoryBadInput).
			WithTextCode(errs.CodeInvalidRegistration)
	}
	if len(mapping) == 0 {
		return errors.New("mapping must contain at least one option", errors.CategoryBadInput).
			WithTextCode(errs.CodeInvalidRegistration).
			WithMetadata(map[string]any{"prefix": prefix})
	}
	return c.refConfig.RegisterFrameworkConfigDefaults(prefix, mapping)
}

// Close releases the log file opened by New.
func (c *Context) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
