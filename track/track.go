// Package track logs where calls come from and what they did.
package track

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goliatone/go-tarkash/logger"
)

const (
	maxArgLen    = 300
	maxReturnLen = 200
	snip         = "<SNIP>"
)

// Invoker describes the caller of the function that calls Invoker.
func Invoker() string {
	return invoker(2)
}

func invoker(skip int) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown caller"
	}

	fn := ""
	if f := runtime.FuncForPC(pc); f != nil {
		fn = "Function/Method: <" + shortFuncName(f.Name()) + "> in "
	}
	mod := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return fmt.Sprintf("%sModule:<%s> File:<%s> Line: %d", fn, mod, file, line)
}

// shortFuncName drops the package path: a/b/pkg.(*T).M becomes (*T).M.
func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// HardCodedSleep sleeps for d and logs a warning naming the caller and the
// author's reason. It returns early with ctx.Err() when ctx is done.
func HardCodedSleep(ctx context.Context, log logger.Logger, why string, d time.Duration) error {
	caller := invoker(1)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if log != nil {
		log.Warn("Hardcoded sleep executed for %s by %s. Reason by author: %s", d, caller, why)
	}
	return nil
}

// TrimArg renders v, cutting it at max characters.
func TrimArg(v any, max int) string {
	s := fmt.Sprint(v)
	if len(s) > max {
		return s[:max] + snip
	}
	return s
}

// Call runs fn, logging its start, its result and any error at level
// Debug, or Trace for unexported names.
func Call[T any](log logger.Logger, name string, fn func() (T, error), args ...any) (T, error) {
	logf := log.Debug
	if short := name[strings.LastIndex(name, ".")+1:]; short != "" && strings.ToLower(short[:1]) == short[:1] {
		logf = log.Trace
	}

	trimmed := make([]string, len(args))
	for i, a := range args {
		trimmed[i] = TrimArg(a, maxArgLen)
	}
	logf("%s:: Started with args %v.", name, trimmed)

	out, err := fn()
	if err != nil {
		logf("%s:: Exception: %v.", name, err)
		return out, err
	}
	logf("%s:: Finished. Returning: %s", name, TrimArg(out, maxReturnLen))
	return out, nil
}
