package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

// ConfigFileType names the format of a project configuration file.
type ConfigFileType string

const (
	FileTypeYAML ConfigFileType = "yaml"
	FileTypeTOML ConfigFileType = "toml"
	FileTypeJSON ConfigFileType = "json"

	FileTypeUnknown ConfigFileType = ""
)

var (
	parsers = map[ConfigFileType]func() koanf.Parser{
		FileTypeYAML: func() koanf.Parser { return yaml.Parser() },
		FileTypeTOML: func() koanf.Parser { return toml.Parser() },
		FileTypeJSON: func() koanf.Parser { return json.Parser() },
	}
	extensions = map[string]ConfigFileType{
		".yaml": FileTypeYAML,
		".yml":  FileTypeYAML,
		".toml": FileTypeTOML,
		".json": FileTypeJSON,
	}
)

func (c ConfigFileType) String() string {
	return string(c)
}

func (c ConfigFileType) Valid() error {
	if _, ok := parsers[c]; ok {
		return nil
	}
	valid := make([]string, 0, len(parsers))
	for t := range parsers {
		valid = append(valid, string(t))
	}
	sort.Strings(valid)
	return errors.New("unsupported configuration file type", errors.CategoryValidation).
		WithTextCode(errs.CodeInvalidFileType).
		WithMetadata(map[string]any{
			"file_type":   string(c),
			"valid_types": valid,
		})
}

// Parser returns the koanf parser of c, nil when c is not Valid.
func (c ConfigFileType) Parser() koanf.Parser {
	if p, ok := parsers[c]; ok {
		return p()
	}
	return nil
}

// fileTypeOf infers the type from the extension of path, case
// insensitively, falling back to fallback when given.
func fileTypeOf(path string, fallback ...ConfigFileType) ConfigFileType {
	if t, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return FileTypeUnknown
}
