// Package runner executes the ordered test-registration ledger a
// guest module built up against its harness context. The ledger is
// walked in registration order; describe handlers may append further
// entries, which run when the walk reaches them.
package runner

import (
	"fmt"

	"github.com/tinderbox-go/tinderbox/harness"
	"github.com/tinderbox-go/tinderbox/logging"
)

// Result is the outcome of one test case.
type Result struct {
	Name   string
	Passed bool
	Err    error
}

// Summary aggregates a whole run.
type Summary struct {
	Results []Result
}

func (s Summary) Passed() int {
	n := 0
	for _, r := range s.Results {
		if r.Passed {
			n++
		}
	}
	return n
}

func (s Summary) Failed() int {
	return len(s.Results) - s.Passed()
}

// OK reports whether every test passed.
func (s Summary) OK() bool {
	return s.Failed() == 0
}

// Run walks the ledger. Hooks apply from their registration point:
// beforeAll runs once in place, beforeEach/afterEach wrap every
// subsequent test, afterAll runs after the walk. Panics inside a
// handler are recovered into failures, an expected-failure test passes
// iff it failed, and the store is cleared after every test case.
func Run(ctx *harness.Context) Summary {
	var (
		sum        Summary
		beforeEach []harness.MetaTest
		afterEach  []harness.MetaTest
		afterAll   []harness.MetaTest
	)

	for i := 0; ; i++ {
		entries := ctx.MetaTests()
		if i >= len(entries) {
			break
		}
		e := entries[i]

		switch e.Role {
		case harness.RoleDescribe:
			logging.Info("%s", e.Name)
			if err := safeCall(e.Handler, ctx); err != nil {
				logging.Error("describe '%s' failed: %v", e.Name, err)
				sum.Results = append(sum.Results, Result{Name: e.Name, Err: err})
			}
		case harness.RoleBeforeAll:
			if err := safeCall(e.Handler, ctx); err != nil {
				logging.Error("beforeAll hook failed: %v", err)
			}
		case harness.RoleBeforeEach:
			beforeEach = append(beforeEach, e)
		case harness.RoleAfterEach:
			afterEach = append(afterEach, e)
		case harness.RoleAfterAll:
			afterAll = append(afterAll, e)
		case harness.RoleTest:
			sum.Results = append(sum.Results, runTest(ctx, e, beforeEach, afterEach))
		default:
			logging.Warn("ignoring ledger entry with unknown role %q", e.Role)
		}
	}

	for _, hook := range afterAll {
		if err := safeCall(hook.Handler, ctx); err != nil {
			logging.Error("afterAll hook failed: %v", err)
		}
	}
	return sum
}

func runTest(ctx *harness.Context, e harness.MetaTest, beforeEach, afterEach []harness.MetaTest) Result {
	var err error
	for _, hook := range beforeEach {
		if err = safeCall(hook.Handler, ctx); err != nil {
			err = fmt.Errorf("beforeEach hook: %w", err)
			break
		}
	}
	if err == nil {
		err = safeCall(e.Handler, ctx)
	}
	for _, hook := range afterEach {
		if hookErr := safeCall(hook.Handler, ctx); hookErr != nil {
			logging.Error("afterEach hook failed: %v", hookErr)
		}
	}
	ctx.ClearStore()

	failed := err != nil
	passed := failed == e.ShouldFail
	if passed {
		logging.Info("test '%s' passed", e.Name)
	} else if e.ShouldFail {
		logging.Error("test '%s' was expected to fail, but passed", e.Name)
	} else {
		logging.Error("test '%s' failed: %v", e.Name, err)
	}
	return Result{Name: e.Name, Passed: passed, Err: err}
}

func safeCall(h harness.Handler, ctx *harness.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if h == nil {
		return nil
	}
	return h(ctx)
}
