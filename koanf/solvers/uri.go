package solvers

import (
	"encoding/base64"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/knadh/koanf/v2"
)

// ProtocolFunc resolves the part of a value that follows the scheme marker.
type ProtocolFunc func(fs billy.Filesystem, uri string) (string, error)

type uris struct {
	fs        billy.Filesystem
	delims    *delimiters
	protocols map[string]ProtocolFunc
}

// NewURISolver resolves @file:// paths against root and decodes @base64://
// payloads.
func NewURISolver(s, e, root string) ConfigSolver {
	return NewURISolverWithFS(s, e, osfs.New(root))
}

func NewURISolverWithFS(s, e string, f billy.Filesystem) ConfigSolver {
	protocols := map[string]ProtocolFunc{
		"file":   SolveFileProtocol,
		"base64": SolveBase64DecodeProtocol,
	}
	return &uris{
		fs:        f,
		delims:    &delimiters{Start: s, End: e},
		protocols: protocols,
	}
}

// Solve will transform a configuration object. Values whose protocol fails
// to resolve are kept unchanged.
func (s uris) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return config
	}

	for key, val := range config.All() {
		v2, ok := val.(string)
		if !ok {
			continue
		}
		s.keypath(key, v2, config)
	}

	return config
}

func (s uris) keypath(key, val string, config *koanf.Koanf) {
	if !strings.HasPrefix(val, s.delims.Start) {
		return
	}

	rest := val[len(s.delims.Start):]
	end := strings.Index(rest, s.delims.End)
	if end <= 0 {
		return
	}

	protocol := rest[:end]
	uri := rest[end+len(s.delims.End):]

	solve, ok := s.protocols[protocol]
	if !ok {
		return
	}
	if content, err := solve(s.fs, uri); err == nil {
		config.Set(key, content)
	}
}

// SolveFileProtocol returns the file content without trailing newlines.
func SolveFileProtocol(f billy.Filesystem, uri string) (string, error) {
	b, err := util.ReadFile(f, uri)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func SolveBase64DecodeProtocol(_ billy.Filesystem, uri string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(uri)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
