// Package filter selects Comic Vine objects with expr-lang expressions.
//
// Every top-level field of an object is a variable, so
//
//	count_of_issues > 100 and Name contains "Spider"
//
// keeps long-running volumes whose name mentions Spider. Helpers cover
// fields that are absent on some objects (has, str, num), Comic Vine dates
// (dateField, parseDate, daysSince, daysAgo, yearsAgo) and credit lists
// (hasCredit).
package filter

import (
	"context"
	"sync"

	"github.com/s0up4200/comicvine/comicvine"
)

var defaultCompiler = sync.OnceValue(func() CachingCompiler {
	return NewExprCompiler(WithCache(100))
})

// CompileFilter compiles expression with a shared caching compiler
func CompileFilter(expression string) (CompiledFilter, error) {
	return defaultCompiler().Compile(expression)
}

// Apply returns the objects matching filter, in order. Objects the filter
// cannot be evaluated against are dropped.
func Apply(ctx context.Context, filter CompiledFilter, objects []comicvine.Object) ([]comicvine.Object, error) {
	matches := make([]comicvine.Object, 0, len(objects))
	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if filter.Evaluate(obj) {
			matches = append(matches, obj)
		}
	}
	return matches, nil
}
