// Command tarkash prints the resolved options of a project.
//
//	tarkash --project-dir ./proj --config project.yaml --set BROWSER=firefox --log-console-level DEBUG
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goliatone/go-tarkash/config"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/goliatone/go-tarkash/option"
	"github.com/goliatone/go-tarkash/strutil"
	"github.com/goliatone/go-tarkash/tarkash"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	projectDir string
	envFile    string
	noEnvFile  bool
	configs    []string
	sets       []string
	get        string
	json       bool
	verbose    bool
}

// optionFlags are layered over every other source when changed.
func optionFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("flags", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("log-console-level", config.DefaultConsoleLogLevel, "console log level")
	fs.String("log-file-level", config.DefaultFileLogLevel, "log file level")
	fs.String("log-dir", "", "log directory")
	fs.String("report-dir", "", "report directory")
	return fs
}

func run(args []string, out io.Writer) error {
	var c cli
	fs := pflag.NewFlagSet("tarkash", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVar(&c.projectDir, "project-dir", "", "project root, defaults to $"+tarkash.ProjectRootEnv)
	fs.StringVar(&c.envFile, "env-file", "", "dotenv file, defaults to the nearest .env")
	fs.BoolVar(&c.noEnvFile, "no-env-file", false, "do not load a dotenv file")
	fs.StringArrayVar(&c.configs, "config", nil, "project configuration file, repeatable")
	fs.StringArrayVar(&c.sets, "set", nil, "KEY=VALUE framework default, repeatable")
	fs.StringVar(&c.get, "get", "", "print a single option")
	fs.BoolVar(&c.json, "json", false, "print options as JSON")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log to the console")

	flags := optionFlags()
	fs.AddFlagSet(flagsForHelp(flags))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	opts := []tarkash.Option{tarkash.WithProjectDir(c.projectDir)}
	switch {
	case c.noEnvFile:
		opts = append(opts, tarkash.WithoutDotEnv())
	case c.envFile != "":
		opts = append(opts, tarkash.WithDotEnv(c.envFile))
	}
	if !c.verbose {
		opts = append(opts, tarkash.WithLogger(logger.Nop{}))
	}
	for _, f := range c.configs {
		opts = append(opts, tarkash.WithConfigFile(f))
	}

	tc, err := tarkash.New(opts...)
	if err != nil {
		return err
	}
	defer tc.Close()
	rc := tc.RefConfig()

	if len(c.sets) > 0 {
		values, err := strutil.NewDictConverter("=").Process(c.sets)
		if err != nil {
			return err
		}
		mapping := make(map[string]any, len(values))
		for k, v := range values {
			mapping[k] = v
		}
		if err := tc.RegisterFrameworkConfigDefaults("cli", mapping); err != nil {
			return err
		}
	}
	if err := rc.LoadFlags(flags); err != nil {
		return err
	}

	switch {
	case c.get != "":
		v, err := rc.StringValue(option.Of(c.get))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, v)
	case c.json:
		b, err := rc.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	default:
		for _, name := range rc.Keys() {
			v, err := rc.StringValue(option.Of(name))
			if err != nil {
				return err
			}
			src, _ := rc.Source(option.Of(name))
			fmt.Fprintf(out, "%s=%s (%s)\n", name, v, src)
		}
	}
	return nil
}

// flagsForHelp copies the option flags so they show up in usage without
// sharing parse state with the option set.
func flagsForHelp(src *pflag.FlagSet) *pflag.FlagSet {
	dst := pflag.NewFlagSet("help", pflag.ContinueOnError)
	src.VisitAll(func(f *pflag.Flag) {
		dst.String(f.Name, f.DefValue, f.Usage)
	})
	return dst
}
