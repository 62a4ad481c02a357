package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"

	"github.com/s0up4200/comicvine/comicvine"
)

// Date layouts used by Comic Vine fields such as cover_date and date_added.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006",
}

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	extra      map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[string, CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.customFuncs, funcs)
	}
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	customFuncs map[string]any
	cache       *lruCache[string, CompiledFilter]
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		customFuncs: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	// Object fields are only known at run time
	env := staticEnvironment(c.customFuncs)
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		extra:      c.customFuncs,
	}
	if c.cache != nil {
		c.cache.Put(expression, filter)
	}
	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether obj matches. Objects the expression cannot be
// evaluated against do not match.
func (f *exprFilter) Evaluate(obj comicvine.Object) bool {
	ok, err := f.Run(obj)
	return err == nil && ok
}

// Run evaluates the filter against obj
func (f *exprFilter) Run(obj comicvine.Object) (bool, error) {
	result, err := expr.Run(f.program, runtimeEnvironment(obj, f.extra))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			ObjectName: obj.DisplayName(),
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}
	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// IsThreadSafe indicates that expr filters are thread-safe
func (f *exprFilter) IsThreadSafe() bool {
	return true
}

// staticEnvironment declares the helpers for compilation. The closures bound
// to an object at run time share these signatures.
func staticEnvironment(custom map[string]any) map[string]any {
	env := runtimeEnvironment(comicvine.Object{}, custom)
	// Variables get their types from the object being evaluated
	for _, name := range []string{"Object", "ID", "Name", "Resource"} {
		delete(env, name)
	}
	return env
}

// runtimeEnvironment exposes obj's fields and the helper functions
func runtimeEnvironment(obj comicvine.Object, custom map[string]any) map[string]any {
	fields := make(map[string]any, len(obj))
	for key, value := range obj {
		fields[key] = comicvine.Normalize(value)
	}

	env := make(map[string]any, len(fields)+16)
	maps.Copy(env, fields)
	addDateHelpers(env)

	env["Object"] = fields
	env["ID"] = obj.ID()
	env["Name"] = obj.DisplayName()
	env["Resource"] = obj.ResourceType()

	env["field"] = func(key string) any {
		return comicvine.Normalize(obj[key])
	}
	env["has"] = func(key string) bool {
		return obj.Has(key)
	}
	env["str"] = func(key string) string {
		return obj.String(key)
	}
	env["num"] = func(key string) float64 {
		return cast.ToFloat64(obj[key])
	}
	env["dateField"] = func(key string) time.Time {
		return parseDate(obj.String(key))
	}
	env["hasCredit"] = createHasCreditFunc(obj)

	maps.Copy(env, custom)
	return env
}

func addDateHelpers(env map[string]any) {
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = parseDate
}

// createHasCreditFunc matches a name within a list of credits, such as
// character_credits or person_credits, case-insensitively.
func createHasCreditFunc(obj comicvine.Object) func(string, string) bool {
	return func(key, name string) bool {
		for _, credit := range obj.Objects(key) {
			if strings.EqualFold(credit.Name(), name) {
				return true
			}
		}
		return false
	}
}

// parseDate parses the date formats the API returns. Unparseable input gives
// the zero time.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
