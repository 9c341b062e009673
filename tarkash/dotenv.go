package tarkash

import (
	"os"
	"path/filepath"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-tarkash/errs"
	"github.com/joho/godotenv"
)

const dotEnvName = ".env"

// loadDotEnv loads path, or the nearest .env from the working directory
// upwards when path is empty. Variables already set are kept.
func loadDotEnv(path string) error {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		found, ok := findDotEnv(wd)
		if !ok {
			return nil
		}
		path = found
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load environment file").
			WithTextCode(errs.CodeEnvironmentLoadFailure).
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}

func findDotEnv(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, dotEnvName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
