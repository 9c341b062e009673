package file

import (
	"encoding/base64"
	"sort"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/object"
	"github.com/goliatone/go-tarkash/track"
	"github.com/knadh/koanf/parsers/yaml"
	"gopkg.in/ini.v1"
)

// FlatFile holds the text of a file read at construction.
type FlatFile struct {
	*File
	content string
}

// NewFlatFile reads path, which must exist.
func NewFlatFile(path string, opts ...Option) (*FlatFile, error) {
	ff := &FlatFile{File: &File{}}
	b, err := load(ff, ff.File, path, opts)
	if err != nil {
		return nil, err
	}
	ff.content = string(b)
	return ff, nil
}

func (f *FlatFile) Content() string {
	return f.content
}

// YamlFile holds the decoded mapping of a YAML document.
type YamlFile struct {
	*File
	content map[string]any
}

func NewYamlFile(path string, opts ...Option) (*YamlFile, error) {
	yf := &YamlFile{File: &File{}}
	b, err := load(yf, yf.File, path, opts)
	if err != nil {
		return nil, err
	}
	content, err := yaml.Parser().Unmarshal(b)
	if err != nil {
		return nil, yf.ioError(err, "The file is not a valid YAML mapping")
	}
	if content == nil {
		content = map[string]any{}
	}
	yf.content = content
	return yf, nil
}

func (f *YamlFile) Content() map[string]any {
	return f.content
}

// IniFile holds the keys of an INI file per section. Keys outside any
// section are listed under ini.DefaultSection when there are any.
type IniFile struct {
	*File
	content map[string]map[string]string
}

func NewIniFile(path string, opts ...Option) (*IniFile, error) {
	inf := &IniFile{File: &File{}}
	b, err := load(inf, inf.File, path, opts)
	if err != nil {
		return nil, err
	}
	cfg, err := parseIni(inf.File, b)
	if err != nil {
		return nil, err
	}

	inf.content = make(map[string]map[string]string)
	for _, section := range cfg.Sections() {
		keys := section.Keys()
		if len(keys) == 0 && section.Name() == ini.DefaultSection {
			continue
		}
		values := make(map[string]string, len(keys))
		for _, k := range keys {
			values[k.Name()] = k.Value()
		}
		inf.content[section.Name()] = values
	}
	return inf, nil
}

func (f *IniFile) Content() map[string]map[string]string {
	return f.content
}

// Sections lists the section names sorted.
func (f *IniFile) Sections() []string {
	names := make([]string, 0, len(f.content))
	for name := range f.content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IniConfigFile flattens an INI file to section.key entries, the form
// registered as framework defaults. Keys outside any section keep their
// bare name.
type IniConfigFile struct {
	*File
	content map[string]string
}

func NewIniConfigFile(path string, opts ...Option) (*IniConfigFile, error) {
	icf := &IniConfigFile{File: &File{}}
	b, err := load(icf, icf.File, path, opts)
	if err != nil {
		return nil, err
	}
	cfg, err := parseIni(icf.File, b)
	if err != nil {
		return nil, err
	}

	icf.content = make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, k := range section.Keys() {
			name := k.Name()
			if section.Name() != ini.DefaultSection {
				name = section.Name() + "." + name
			}
			icf.content[name] = k.Value()
		}
	}
	return icf, nil
}

func (f *IniConfigFile) Content() map[string]string {
	return f.content
}

// Defaults returns the content as a registration mapping.
func (f *IniConfigFile) Defaults() map[string]any {
	out := make(map[string]any, len(f.content))
	for k, v := range f.content {
		out[k] = v
	}
	return out
}

// ImageFile holds the raw bytes of an image.
type ImageFile struct {
	*File
	content []byte
}

func NewImageFile(path string, opts ...Option) (*ImageFile, error) {
	imf := &ImageFile{File: &File{}}
	b, err := load(imf, imf.File, path, opts)
	if err != nil {
		return nil, err
	}
	imf.content = b
	return imf, nil
}

func (f *ImageFile) Content() []byte {
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out
}

func (f *ImageFile) Base64() string {
	return base64.StdEncoding.EncodeToString(f.content)
}

// load resolves path on base, owned by owner, and reads it. Content files
// always require the file to exist.
func load(owner any, base *File, path string, opts []Option) ([]byte, error) {
	opts = append(append([]Option{}, opts...), ShouldExist(true))
	if err := base.init(owner, path, opts...); err != nil {
		return nil, err
	}
	if !base.IsFile() {
		return nil, base.incorrectPath("The path is a directory")
	}
	return track.Call(base.logger, "File.ReadAll", base.ReadAll, base.FullPath())
}

func parseIni(f *File, b []byte) (*ini.File, error) {
	cfg, err := ini.Load(b)
	if err != nil {
		return nil, object.WrapError(f, err, errors.CategoryBadInput, errs.CodeFileIO,
			"Error in file operation: >>"+f.describe()+"<<. The file is not valid INI: "+err.Error()+".")
	}
	return cfg, nil
}
