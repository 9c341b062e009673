// Package option enumerates the configuration keys built into the
// framework. Any other name is an extension option identified only by its
// string.
package option

import "fmt"

// Key identifies an option by name.
type Key interface {
	Name() string
}

// Option is a built-in configuration key.
type Option int

const (
	RootDir Option = iota + 1
	ExternalImportsDir
	LogName
	RunID
	RunSessionName
	RunHostOS
	LogFileLevel
	LogConsoleLevel
	LogAllowedContexts
	L10NLocale
	L10NStrict
	L10NDir
	ProjectName
	ProjectDir
	ConfProjectFile
	ConfProjectLocalFile
	ReportDir
	LogDir
	ToolsDir
	DepsDir
	TempDir
	ConfDir
	ConfDataFile
	ConfDataLocalFile
	ConfEnvsFile
	ConfEnvsLocalFile
	DataDir
	DataSrcDir
	DataRefDir
	DataRefContextualDir
	DataRefIndexedDir
	DataFileDir
)

type definition struct {
	name        string
	description string
}

var definitions = map[Option]definition{
	RootDir:              {"ROOT_DIR", "Root directory of the framework installation used in a session."},
	ExternalImportsDir:   {"EXTERNAL_IMPORTS_DIR", "Directory of third party libraries shipped with the framework."},
	LogName:              {"LOG_NAME", "Name of the log file."},
	RunID:                {"RUN_ID", "Alphanumeric identifier of the current test run."},
	RunSessionName:       {"RUN_SESSION_NAME", "Current session name."},
	RunHostOS:            {"RUN_HOST_OS", "Host operating system: Windows, Mac or Linux."},
	LogFileLevel:         {"LOG_FILE_LEVEL", "Minimum level for a message to be written to the log file."},
	LogConsoleLevel:      {"LOG_CONSOLE_LEVEL", "Minimum level for a message to be displayed on the console."},
	LogAllowedContexts:   {"LOG_ALLOWED_CONTEXTS", "Context strings allowed for logging. Messages without a context are always logged."},
	L10NLocale:           {"L10N_LOCALE", "Default locale used for localization."},
	L10NStrict:           {"L10N_STRICT", "Strict localization mode. Default is false."},
	L10NDir:              {"L10N_DIR", "Directory containing localization files."},
	ProjectName:          {"PROJECT_NAME", "Test project name."},
	ProjectDir:           {"PROJECT_DIR", "Test project root directory."},
	ConfProjectFile:      {"CONF_PROJECT_FILE", "Project configuration file path."},
	ConfProjectLocalFile: {"CONF_PROJECT_LOCAL_FILE", "Local project configuration file path."},
	ReportDir:            {"REPORT_DIR", "Report directory for the current test run."},
	LogDir:               {"LOG_DIR", "Directory containing the log file of the current test run."},
	ToolsDir:             {"TOOLS_DIR", "Directory containing external tool binaries of the test project."},
	DepsDir:              {"DEPS_DIR", "Directory containing external dependencies of the test project."},
	TempDir:              {"TEMP_DIR", "Temporary directory for this session."},
	ConfDir:              {"CONF_DIR", "Test project configuration directory."},
	ConfDataFile:         {"CONF_DATA_FILE", "File that contains all data configurations."},
	ConfDataLocalFile:    {"CONF_DATA_LOCAL_FILE", "Local file that contains all data configurations."},
	ConfEnvsFile:         {"CONF_ENVS_FILE", "File that contains all environment configurations."},
	ConfEnvsLocalFile:    {"CONF_ENVS_LOCAL_FILE", "Local file that contains all environment configurations."},
	DataDir:              {"DATA_DIR", "Directory containing data files of the test project."},
	DataSrcDir:           {"DATA_SRC_DIR", "Directory containing data source files of the test project."},
	DataRefDir:           {"DATA_REF_DIR", "Directory containing data reference files of the test project."},
	DataRefContextualDir: {"DATA_REF_CONTEXTUAL_DIR", "Directory containing contextual data reference files."},
	DataRefIndexedDir:    {"DATA_REF_INDEXED_DIR", "Directory containing indexed data reference files."},
	DataFileDir:          {"DATA_FILE_DIR", "Directory containing files used as file data."},
}

var byName = func() map[string]Option {
	m := make(map[string]Option, len(definitions))
	for o, d := range definitions {
		m[d.name] = o
	}
	return m
}()

func (o Option) Name() string {
	if d, ok := definitions[o]; ok {
		return d.name
	}
	return fmt.Sprintf("Option(%d)", int(o))
}

func (o Option) String() string {
	return o.Name()
}

func (o Option) Description() string {
	return definitions[o].description
}

func (o Option) Valid() bool {
	_, ok := definitions[o]
	return ok
}

// All returns the built-in options in declaration order.
func All() []Option {
	out := make([]Option, 0, len(definitions))
	for o := RootDir; o <= DataFileDir; o++ {
		out = append(out, o)
	}
	return out
}

// Parse resolves a built-in option by its exact name.
func Parse(name string) (Option, bool) {
	o, ok := byName[name]
	return o, ok
}

// Extension is a caller-defined option.
type Extension string

func (e Extension) Name() string {
	return string(e)
}

func (e Extension) String() string {
	return string(e)
}

// Of returns the built-in option named name, or an Extension.
func Of(name string) Key {
	if o, ok := Parse(name); ok {
		return o
	}
	return Extension(name)
}

// IsBuiltIn reports whether k names a built-in option.
func IsBuiltIn(k Key) bool {
	if k == nil {
		return false
	}
	_, ok := Parse(k.Name())
	return ok
}
