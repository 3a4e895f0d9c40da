// Package steps provides the console frame for running named pipeline stages:
// colored status lines, GitHub Actions log groups, and a closing summary over
// multiple jobs.
package steps

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Status is the outcome of a step or a whole job.
type Status int

const (
	Failure Status = iota
	Success
	Skip
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Skip:
		return "skip"
	default:
		return "failure"
	}
}

// Printer writes step output. Groups render as GitHub Actions log groups so
// each stage is collapsible in the Actions UI; the status line is printed
// after the group ends so failed stages are easy to scan for.
type Printer struct {
	Out io.Writer

	bold   func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// NewPrinter creates a Printer writing to out. A nil out means os.Stdout.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{
		Out:    out,
		bold:   color.New(color.Bold).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		red:    color.New(color.FgRed, color.Bold).SprintFunc(),
	}
}

// NewPlainPrinter creates a Printer without color codes, for tests and
// non-terminal output.
func NewPlainPrinter(out io.Writer) *Printer {
	plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &Printer{Out: out, bold: plain, green: plain, yellow: plain, red: plain}
}

// Command echoes a command line about to run.
func (p *Printer) Command(args ...string) {
	fmt.Fprintln(p.Out, p.yellow("+++ "+strings.Join(args, " ")))
}

// StepStart opens a log group for the named step.
func (p *Printer) StepStart(name string) {
	fmt.Fprintf(p.Out, "::group::%s\n", name)
	fmt.Fprintln(p.Out, p.bold(fmt.Sprintf("-----------[ start %s ]-----------", name)))
}

// StepEnd closes the log group and prints the step status.
func (p *Printer) StepEnd(name string, result Status) {
	fmt.Fprintln(p.Out, p.bold(fmt.Sprintf("-----------[ end %s ]-----------", name)))
	fmt.Fprintln(p.Out, "::endgroup::")
	switch result {
	case Success:
		fmt.Fprintln(p.Out, p.green(name+" succeeded"))
	case Skip:
		fmt.Fprintln(p.Out, p.yellow(name+" skipped"))
	default:
		fmt.Fprintln(p.Out, p.red(name+" FAILED"))
	}
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.Out, p.red(msg))
}

// Info prints an unadorned line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.Out, msg)
}

// Runner executes named steps in sequence through a Printer.
type Runner struct {
	Printer *Printer
}

// NewRunner creates a Runner printing to p.
func NewRunner(p *Printer) *Runner {
	return &Runner{Printer: p}
}

// Run executes fn inside a log group for name. A non-nil error is reported as
// a failed step and returned unchanged, so callers short-circuit on the first
// failing stage.
func (r *Runner) Run(name string, fn func() error) error {
	r.Printer.StepStart(name)
	err := fn()
	if err != nil {
		r.Printer.Error(">>> " + err.Error())
		r.Printer.StepEnd(name, Failure)
		return err
	}
	r.Printer.StepEnd(name, Success)
	return nil
}

// Summary collects per-job outcomes and prints the closing block.
type Summary struct {
	results map[Status][]string
}

// NewSummary creates an empty Summary.
func NewSummary() *Summary {
	return &Summary{results: map[Status][]string{}}
}

// Record adds the outcome for a named job.
func (s *Summary) Record(name string, result Status) {
	s.results[result] = append(s.results[result], name)
}

// Failed reports whether any recorded job failed.
func (s *Summary) Failed() bool {
	return len(s.results[Failure]) > 0
}

// Print writes the summary block. Status of successful jobs is listed first
// so failures end up at the bottom of the log.
func (s *Summary) Print(p *Printer) {
	fmt.Fprintln(p.Out)
	line := "Successful jobs: " + strings.Join(s.results[Success], ", ")
	if s.Failed() {
		p.Info(line)
	} else {
		fmt.Fprintln(p.Out, p.green(line))
	}
	if len(s.results[Skip]) > 0 {
		fmt.Fprintln(p.Out, p.yellow("SKIPPED jobs: "+strings.Join(s.results[Skip], ", ")))
	}
	if s.Failed() {
		p.Error("FAILED jobs: " + strings.Join(s.results[Failure], ", "))
	}
}
