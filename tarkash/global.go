package tarkash

import (
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/config"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/goliatone/go-tarkash/option"
)

var (
	mu      sync.RWMutex
	current *Context
)

// Init builds the process-wide Context. Only the first successful call has
// an effect; later calls return nil without reading their options.
func Init(opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return nil
	}
	c, err := New(opts...)
	if err != nil {
		return err
	}
	current = c
	return nil
}

// Default returns the process-wide Context.
func Default() (*Context, error) {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		return nil, errors.New("tarkash is not initialised, call tarkash.Init first", errors.CategoryOperation).
			WithTextCode(errs.CodeNotInitialized)
	}
	return current, nil
}

func GetLogger() (logger.Logger, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Logger(), nil
}

func GetOptionValue(key option.Key) (any, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.OptionValue(key)
}

func GetRefConfig() (*config.RefConfig, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.RefConfig(), nil
}

func RegisterFrameworkConfigDefaults(prefix string, mapping map[string]any) error {
	c, err := Default()
	if err != nil {
		return err
	}
	return c.RegisterFrameworkConfigDefaults(prefix, mapping)
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		_ = current.Close()
	}
	current = nil
}
