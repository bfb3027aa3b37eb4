// Package report renders what a refactor run decided: decision lines and
// optional diffs on the console, and a YAML summary file.
package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"importmover/internal/domain/valueobject"

	difflib "github.com/pmezard/go-difflib/difflib"
)

const defaultDiffContext = 3

// ConsoleOptions controls what the console reporter prints.
type ConsoleOptions struct {
	// Diff prints a unified diff after each rewritten file.
	Diff bool
	// DiffContext is the number of context lines per hunk; 0 means 3.
	DiffContext int
}

// ConsoleReporter implements outbound.DecisionReporter on a writer.
//
// Each visited file prints its path, then one line per import:
//
//	  * spec => target   relative specifier rewritten
//	  - spec => target   non-relative specifier rewritten
//	  X spec             import deleted
//	  . spec             left untouched
type ConsoleReporter struct {
	mu   sync.Mutex
	out  io.Writer
	opts ConsoleOptions
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer, opts ConsoleOptions) *ConsoleReporter {
	if opts.DiffContext <= 0 {
		opts.DiffContext = defaultDiffContext
	}
	return &ConsoleReporter{out: out, opts: opts}
}

// FileVisited prints the file's path.
func (r *ConsoleReporter) FileVisited(_ context.Context, path string) error {
	return r.println(path)
}

// ImportResolved prints the decision line for one import.
func (r *ConsoleReporter) ImportResolved(
	_ context.Context,
	_ valueobject.ImportRecord,
	res valueobject.Resolution,
) error {
	return r.println(DecisionLine(res))
}

// FileRewritten prints a unified diff of the change when enabled.
func (r *ConsoleReporter) FileRewritten(_ context.Context, path, before, after string) error {
	if !r.opts.Diff || before == after {
		return nil
	}

	patch, err := UnifiedDiff(path, before, after, r.opts.DiffContext)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = io.WriteString(r.out, patch)
	return err
}

func (r *ConsoleReporter) println(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintln(r.out, line)
	return err
}

// DecisionLine renders one resolution with its prefix marker.
func DecisionLine(res valueobject.Resolution) string {
	switch {
	case res.IsMoved() && res.Relative:
		return fmt.Sprintf("  * %s => %s", res.Specifier, res.Target)
	case res.IsMoved():
		return fmt.Sprintf("  - %s => %s", res.Specifier, res.Target)
	case res.IsDeleted():
		return "  X " + res.Specifier
	default:
		return "  . " + res.Specifier
	}
}

// UnifiedDiff returns an a/ b/ prefixed unified diff of before and after.
func UnifiedDiff(path, before, after string, contextLines int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	}
	patch, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return patch, nil
}
