// Package file wraps paths and eagerly read file contents as domain
// objects, so that every failure names the file and the steps taken to
// resolve it.
package file

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/attr"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/goliatone/go-tarkash/object"
)

// ProjectRootEnv is the base directory of relative paths when WithBaseDir
// is not given.
const ProjectRootEnv = "PROJECT_ROOT_DIR"

type settings struct {
	name        string
	tryRelative bool
	shouldExist bool
	baseDir     string
	fs          billy.Filesystem
	logger      logger.Logger
}

type Option func(*settings)

func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// TryRelativePath resolves relative paths against the base directory.
// Enabled by default.
func TryRelativePath(v bool) Option {
	return func(s *settings) {
		s.tryRelative = v
	}
}

func ShouldExist(v bool) Option {
	return func(s *settings) {
		s.shouldExist = v
	}
}

func WithBaseDir(dir string) Option {
	return func(s *settings) {
		s.baseDir = dir
	}
}

// WithFilesystem reads from fs instead of the host filesystem. Paths are
// resolved to absolute form before fs sees them.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(s *settings) {
		s.fs = fs
	}
}

// WithLogger traces content reads.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// File is a path checked at construction.
type File struct {
	*object.Base

	fs          billy.Filesystem
	logger      logger.Logger
	path        *attr.Field
	fullPath    string
	relative    bool
	shouldExist bool
	exists      bool
	isFile      bool
}

// NewFile resolves path. It fails with INCORRECT_FILE_PATH when the file is
// required to exist and does not.
func NewFile(path string, opts ...Option) (*File, error) {
	f := &File{}
	if err := f.init(f, path, opts...); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) init(owner any, path string, opts ...Option) error {
	s := settings{tryRelative: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.fs == nil {
		s.fs = osfs.New("/")
	}
	if s.logger == nil {
		s.logger = logger.Nop{}
	}

	var objOpts []object.Option
	if s.name != "" {
		objOpts = append(objOpts, object.WithName(s.name))
	}
	f.Base = object.New(owner, objOpts...)
	f.fs = s.fs
	f.logger = s.logger
	f.shouldExist = s.shouldExist
	f.path = attr.New("path", attr.String(), attr.Immutable(), attr.WithOwner(owner))
	if err := f.path.Set(path); err != nil {
		return err
	}
	f.fullPath = path

	return f.resolve(path, s)
}

func (f *File) resolve(path string, s settings) error {
	f.AppendTrace("Checking whether the file path is correct")

	if filepath.IsAbs(path) {
		f.fullPath = filepath.Clean(path)
	} else {
		f.relative = true
		f.AppendTrace("It's a relative path")
		if !s.tryRelative {
			if s.shouldExist {
				return f.incorrectPath("Expected absolute path (relative path might be correct but not relevant)")
			}
			return nil
		}
		f.AppendTrace("Converting to absolute path")
		f.fullPath = filepath.Join(baseDir(s.baseDir), path)
	}

	info, err := f.fs.Stat(f.fullPath)
	switch {
	case err == nil:
		f.exists = true
		f.isFile = !info.IsDir()
	case os.IsNotExist(err):
	default:
		return f.ioError(err, "Could not check the file")
	}

	if !f.exists && s.shouldExist {
		return f.incorrectPath("The file does not exist")
	}
	return nil
}

func baseDir(dir string) string {
	if dir != "" {
		return dir
	}
	if env, ok := os.LookupEnv(ProjectRootEnv); ok && env != "" {
		return env
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Path is the path as given.
func (f *File) Path() string {
	p, _ := attr.Value[string](f.path)
	return p
}

// FullPath is the resolved path. It equals Path for absolute paths and for
// relative paths that were not resolved.
func (f *File) FullPath() string {
	return f.fullPath
}

func (f *File) Exists() bool {
	return f.exists
}

func (f *File) IsFile() bool {
	return f.isFile
}

func (f *File) HasRelativePath() bool {
	return f.relative
}

func (f *File) Meta() object.Meta {
	return object.MergeProperties(f.Base, object.Meta{
		{Key: "path", Value: f.Path()},
		{Key: "full_path", Value: f.fullPath},
		{Key: "is_relative", Value: f.relative},
		{Key: "should_exist", Value: f.shouldExist},
		{Key: "exists", Value: f.exists},
	})
}

func (f *File) String() string {
	return f.Meta().String()
}

// ReadAll returns the file bytes, failing with FILE_IO.
func (f *File) ReadAll() ([]byte, error) {
	f.AppendTrace("Attempting to read the file")
	b, err := util.ReadFile(f.fs, f.fullPath)
	if err != nil {
		return nil, f.ioError(err, "An error occurred while reading the file")
	}
	return b, nil
}

func (f *File) describe() string {
	msg := f.Path()
	if f.relative && f.fullPath != f.Path() {
		msg += " (with relative path resolved to " + f.fullPath + ")"
	}
	return msg
}

func (f *File) incorrectPath(message string) error {
	return object.NewError(f, errors.CategoryNotFound, errs.CodeIncorrectFilePath,
		"Incorrect file path for reading/writing: >>"+f.describe()+"<<. "+message+".")
}

func (f *File) ioError(source error, message string) error {
	return object.WrapError(f, source, errors.CategoryOperation, errs.CodeFileIO,
		"Error in file operation: >>"+f.describe()+"<<. "+message+": "+source.Error()+".")
}
