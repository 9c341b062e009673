// Package solvers rewrites option values after every configuration load.
// A solver walks the flattened store and replaces values that carry a
// marker: ${OPTION} references, @scheme:// indirections or {{ expr }}
// expressions.
package solvers

import (
	"fmt"
	"reflect"

	"github.com/go-git/go-billy/v5"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/knadh/koanf/v2"
)

type ConfigSolver interface {
	Solve(config *koanf.Koanf) *koanf.Koanf
}

func ToString(v any) string {
	return fmt.Sprintf("%v", reflect.ValueOf(v))
}

type delimiters struct {
	Start string
	End   string
}

// Defaults returns the solver chain applied to a reference configuration.
// Variables run first so that expressions see substituted values; @file://
// paths are read from fs. Failed expressions are reported to log.
func Defaults(fs billy.Filesystem, log logger.Logger) []ConfigSolver {
	return []ConfigSolver{
		NewVariablesSolver("${", "}"),
		NewURISolverWithFS("@", "://", fs),
		NewExpressionSolver("{{", "}}", OnEvalError(OnEvalLog(log))),
	}
}
