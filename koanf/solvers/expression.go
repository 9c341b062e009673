package solvers

import (
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-tarkash/logger"
	"github.com/knadh/koanf/v2"
)

// EvalErrorHandler decides what happens to an option whose expression
// failed to evaluate.
type EvalErrorHandler func(key, expr string, err error, cfg *koanf.Koanf)

type ExpressionOption func(*expression)

// WithEvaluator replaces the expr-lang evaluator.
func WithEvaluator(e opts.Evaluator) ExpressionOption {
	return func(s *expression) {
		if e != nil {
			s.evaluator = e
		}
	}
}

func OnEvalError(h EvalErrorHandler) ExpressionOption {
	return func(s *expression) {
		if h != nil {
			s.onError = h
		}
	}
}

type expression struct {
	delimiters delimiters
	evaluator  opts.Evaluator
	onError    EvalErrorHandler
}

// NewExpressionSolver evaluates option values that are a single expression
// between start and end, {{ and }} when blank. Option names are variables
// of the expression: {{ RUN_HOST_OS == "Linux" }}. Values that merely
// contain an expression are left alone. By default a failed expression
// keeps its text.
func NewExpressionSolver(start, end string, options ...ExpressionOption) ConfigSolver {
	if start == "" {
		start = "{{"
	}
	if end == "" {
		end = "}}"
	}
	s := &expression{
		delimiters: delimiters{Start: start, End: end},
		evaluator:  opts.NewExprEvaluator(),
		onError:    OnEvalLeaveUnchanged(),
	}
	for _, o := range options {
		if o != nil {
			o(s)
		}
	}
	return s
}

func (s *expression) Solve(config *koanf.Koanf) *koanf.Koanf {
	if config == nil {
		return nil
	}

	for key, val := range config.All() {
		raw, ok := val.(string)
		if !ok {
			continue
		}
		expr, ok := s.unwrap(raw)
		if !ok {
			continue
		}

		out, err := s.evaluator.Evaluate(opts.RuleContext{Snapshot: config.Raw()}, expr)
		if err != nil {
			s.onError(key, expr, err, config)
			continue
		}
		config.Set(key, out)
	}
	return config
}

func (s *expression) unwrap(v string) (string, bool) {
	inner, ok := strings.CutPrefix(v, s.delimiters.Start)
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, s.delimiters.End)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(inner), true
}

func OnEvalLeaveUnchanged() EvalErrorHandler {
	return func(string, string, error, *koanf.Koanf) {}
}

// OnEvalLog warns and keeps the text.
func OnEvalLog(log logger.Logger) EvalErrorHandler {
	if log == nil {
		return OnEvalLeaveUnchanged()
	}
	return func(key, expr string, err error, _ *koanf.Koanf) {
		log.Warn("expression for %s could not be evaluated: %s (%v)", key, expr, err)
	}
}

// OnEvalRemove drops the option so lookups report it as not defined.
func OnEvalRemove() EvalErrorHandler {
	return func(key string, _ string, _ error, cfg *koanf.Koanf) {
		cfg.Delete(key)
	}
}

// OnEvalLogAndPanic is meant for tests and tools where a broken
// expression must stop the run.
func OnEvalLogAndPanic(log logger.Logger) EvalErrorHandler {
	if log == nil {
		log = logger.NewDefaultLogger("solvers")
	}
	return func(key, expr string, err error, _ *koanf.Koanf) {
		log.Error("expression for %s could not be evaluated: %s (%v)", key, expr, err)
		panic(err)
	}
}
