// Package cfgx turns a resolved option view into a typed settings struct.
//
// Build copies the defaults, decodes the input on top of them and runs the
// validator. Fields are matched through koanf tags against option names,
// so the struct that registers defaults with RefConfig.RegisterStruct also
// receives the resolved values:
//
//	type Browser struct {
//		Name    string        `koanf:"BROWSER_NAME"`
//		Timeout time.Duration `koanf:"BROWSER_TIMEOUT"`
//	}
//
//	b, err := cfgx.Build[Browser](view, cfgx.WithRequired[Browser]("BROWSER_NAME"))
//
// Failures are StageErrors matching ErrDefaults, ErrDecode or ErrValidate.
// Conflicting options fail with ErrOption before any stage runs.
package cfgx
