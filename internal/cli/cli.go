// Package cli provides the cobra command tree with injectable dependencies
// for testing.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/proofcraft/sel4ci/internal/adapters/execgit"
	"github.com/proofcraft/sel4ci/internal/adapters/exechg"
	"github.com/proofcraft/sel4ci/internal/adapters/gogit"
	"github.com/proofcraft/sel4ci/internal/adapters/osfs"
	"github.com/proofcraft/sel4ci/internal/config"
	"github.com/proofcraft/sel4ci/internal/mirror"
	"github.com/proofcraft/sel4ci/internal/steps"
)

// EnvLogLevel selects the hclog level for diagnostics. Console output is
// always printed through the step printer regardless of this setting.
const EnvLogLevel = "SEL4CI_LOG_LEVEL"

// JobRunner runs a single mirror job. The production implementation is
// mirror.Pipeline; tests substitute a fake.
type JobRunner interface {
	Run(ctx context.Context, job mirror.Job) error
}

// CLI holds the injectable pieces of the command tree.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error
	Version string    // Application version

	// NewRunner builds the job runner. nil means the real pipeline wired
	// with the exec/gogit adapters.
	NewRunner func(printer *steps.Printer, keepWorkdir bool) JobRunner

	// LoadJobs loads the mirror job file. nil means config.Load.
	LoadJobs func(path string) (*config.File, error)
}

// New creates a CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
	}
}

// Root builds the root cobra command.
func (c *CLI) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "sel4ci <command> [args]",
		Short:         "CI helper tooling for the seL4 ecosystem",
		Version:       c.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	root.AddCommand(c.mirrorCmd())

	return root
}

// Execute runs the command tree and returns the process exit code.
func (c *CLI) Execute(args []string) int {
	root := c.Root()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *CLI) mirrorCmd() *cobra.Command {
	var jobsFile string
	var keepWorkdir bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "mirror [<upstream-url> <mirror-url> <mirror-branch>]",
		Short: "Mirror a Mercurial repository into a git repository",
		Long: `Mirror converts the history of an upstream Mercurial repository into git,
verifies tags and ancestry against the published mirror, and pushes the
update. With --jobs, runs all (or the named) jobs from a YAML job file
instead of taking positional arguments.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := steps.NewPrinter(c.Out)
			if noColor {
				printer = steps.NewPlainPrinter(c.Out)
			}
			runner := c.newRunner(printer, keepWorkdir)

			if jobsFile != "" {
				return c.runJobs(cmd.Context(), runner, printer, jobsFile, args)
			}

			if len(args) != 3 {
				return fmt.Errorf("expected <upstream-url> <mirror-url> <mirror-branch>, got %d arguments", len(args))
			}
			job := mirror.Job{
				Name:         args[2],
				UpstreamURL:  args[0],
				MirrorURL:    args[1],
				MirrorBranch: args[2],
			}
			return runner.Run(cmd.Context(), job)
		},
	}

	cmd.Flags().StringVar(&jobsFile, "jobs", "", "run jobs from the given YAML job file")
	cmd.Flags().BoolVar(&keepWorkdir, "keep-workdir", false, "retain the temporary working directory on success")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

// runJobs runs all jobs from the job file, or just the named ones. Jobs keep
// running after a failure; the summary and exit status report the failures.
func (c *CLI) runJobs(ctx context.Context, runner JobRunner, printer *steps.Printer, path string, names []string) error {
	f, err := c.loadJobs(path)
	if err != nil {
		return err
	}

	jobs := f.Jobs
	if len(names) > 0 {
		jobs = nil
		for _, name := range names {
			job, ok := f.Job(name)
			if !ok {
				return fmt.Errorf("no job %q in %s (have: %s)", name, path, strings.Join(f.Names(), ", "))
			}
			jobs = append(jobs, job)
		}
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs in %s", path)
	}

	summary := steps.NewSummary()
	for _, job := range jobs {
		printer.Info(fmt.Sprintf("=== job %s ===", job.Name))
		err := runner.Run(ctx, mirror.Job{
			Name:         job.Name,
			UpstreamURL:  job.Upstream,
			MirrorURL:    job.Mirror,
			MirrorBranch: job.Branch,
		})
		if err != nil {
			summary.Record(job.Name, steps.Failure)
			continue
		}
		summary.Record(job.Name, steps.Success)
	}

	summary.Print(printer)
	if summary.Failed() {
		return fmt.Errorf("some mirror jobs failed")
	}
	return nil
}

func (c *CLI) newRunner(printer *steps.Printer, keepWorkdir bool) JobRunner {
	if c.NewRunner != nil {
		return c.NewRunner(printer, keepWorkdir)
	}

	logger := newLogger(c.Err)
	return mirror.New(
		exechg.New(exechg.WithLogger(logger.Named("hg"))),
		execgit.New(execgit.WithLogger(logger.Named("git"))),
		gogit.New(),
		osfs.New(),
		mirror.WithLogger(logger.Named("mirror")),
		mirror.WithRunner(steps.NewRunner(printer)),
		mirror.WithKeepWorkdir(keepWorkdir),
	)
}

func (c *CLI) loadJobs(path string) (*config.File, error) {
	if c.LoadJobs != nil {
		return c.LoadJobs(path)
	}
	return config.Load(path)
}

func newLogger(out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "sel4ci",
		Level:  hclog.LevelFromString(logLevel()),
		Output: out,
	})
}

func logLevel() string {
	lvl := strings.ToLower(os.Getenv(EnvLogLevel))
	switch lvl {
	case "trace", "debug", "info", "warn", "error", "off":
		return lvl
	default:
		return "warn"
	}
}
