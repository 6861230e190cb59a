package conformance

import (
	"fmt"
	"strings"
	"testing"

	"github.com/roach88/manikin/internal/core"
)

// Problem names the conformance check that failed.
type Problem string

const (
	ProblemObj          Problem = "obj"
	ProblemOld          Problem = "old"
	ProblemSend         Problem = "send"
	ProblemDeterminism  Problem = "determinism"
	ProblemRollback     Problem = "rollback"
	ProblemPrecondition Problem = "precondition"
	ProblemFault        Problem = "fault"
	ProblemRecursion    Problem = "recursion"
	ProblemIsolation    Problem = "isolation"
)

// Failure is one failed check together with the World it left behind.
type Failure struct {
	Problem Problem
	Err     error
	World   core.World
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s issue: %v", f.Problem, f.Err)
}

// Report is the outcome of Verify.
type Report struct {
	// Passed lists the checks that passed, in execution order.
	Passed []Problem

	// Failures lists the checks that failed, in execution order.
	Failures []Failure
}

// Pass reports whether every check passed.
func (r *Report) Pass() bool {
	return len(r.Failures) == 0
}

// String summarizes the report, one failure per line.
func (r *Report) String() string {
	if r.Pass() {
		return fmt.Sprintf("conforming: %d checks passed", len(r.Passed))
	}
	lines := make([]string, 0, len(r.Failures)+1)
	lines = append(lines, fmt.Sprintf("not conforming: %d of %d checks failed", len(r.Failures), len(r.Failures)+len(r.Passed)))
	for _, f := range r.Failures {
		lines = append(lines, "  "+f.Error())
	}
	return strings.Join(lines, "\n")
}

// Verify runs every check against pristine Worlds obtained from w.Init().
func Verify(w core.World) *Report {
	r := &Report{}
	for _, c := range Checks() {
		last, err := c.Run(w.Init())
		if err != nil {
			r.Failures = append(r.Failures, Failure{Problem: c.Problem, Err: err, World: last})
			continue
		}
		r.Passed = append(r.Passed, c.Problem)
	}
	return r
}

// Run runs every check as a subtest of t.
func Run(t *testing.T, w core.World) {
	t.Helper()
	for _, c := range Checks() {
		t.Run(string(c.Problem), func(t *testing.T) {
			if _, err := c.Run(w.Init()); err != nil {
				t.Errorf("%s issue: %v", c.Problem, err)
			}
		})
	}
}
