// Package cli implements the audit command-line tool.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/octobees/presence-audit/internal/entity"
	"github.com/octobees/presence-audit/internal/report"
	"github.com/octobees/presence-audit/internal/service"
)

// Auditor is the part of the audit service the CLI drives.
type Auditor interface {
	GetPredictions(ctx context.Context, caller, query string, dailyLimit int) ([]entity.PlacePrediction, error)
	AnalyzeStandard(ctx context.Context, caller string, req service.StandardRequest, dailyLimit int) (*entity.AnalysisResult, error)
	AnalyzePro(ctx context.Context, caller string, req service.ProRequest, dailyLimit int) (*entity.AnalysisResult, error)
}

// SelfScorer scores a checklist offline.
type SelfScorer interface {
	CalculateSelfAudit(checklist entity.Checklist, inputs entity.SelfAuditInputs) *entity.AnalysisResult
}

// OpenFunc wires an Auditor on demand and returns a cleanup function.
type OpenFunc func(ctx context.Context) (Auditor, func(), error)

// Options contain configuration for the CLI.
type Options struct {
	Open     OpenFunc
	Self     SelfScorer
	Output   io.Writer
	Limits   Limits
	Timeout  time.Duration
	Caller   string
	Defaults ProDefaults
}

// Limits are the daily lookup budgets passed to the service.
type Limits struct {
	Daily    int
	ProDaily int
}

// ProDefaults seeds flags of the pro command.
type ProDefaults struct {
	RadiusMiles float64
}

// CLI represents the command-line interface.
type CLI struct {
	opts     Options
	reporter *report.Reporter
	rootCmd  *cobra.Command
	asJSON   bool
	caller   string
}

// NewCLI creates a new CLI instance.
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.Self == nil {
		opts.Self = service.SelfAuditor{}
	}
	if opts.Caller == "" {
		opts.Caller = "cli:local"
	}
	if opts.Defaults.RadiusMiles <= 0 {
		opts.Defaults.RadiusMiles = 3
	}

	cli := &CLI{opts: opts, reporter: report.NewReporter(opts.Output)}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the root command with os.Args.
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// Root exposes the root command, mainly so tests can set arguments.
func (cli *CLI) Root() *cobra.Command {
	return cli.rootCmd
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "audit",
		Short:         "Score a local business listing against its competitors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)

	cmd.PersistentFlags().BoolVar(&cli.asJSON, "json", false, "Print the raw result as JSON")
	cmd.PersistentFlags().StringVar(&cli.caller, "caller", cli.opts.Caller, "Identity charged for provider lookups")

	cmd.AddCommand(newSelfCmd(cli))
	cmd.AddCommand(newStandardCmd(cli))
	cmd.AddCommand(newProCmd(cli))
	cmd.AddCommand(newPredictCmd(cli))

	return cmd
}

// live opens the auditor with a bounded context and runs fn.
func (cli *CLI) live(fn func(ctx context.Context, audits Auditor) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cli.opts.Timeout)
	defer cancel()

	audits, closeFn, err := cli.opts.Open(ctx)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	return fn(ctx, audits)
}

func (cli *CLI) render(result *entity.AnalysisResult) error {
	if cli.asJSON {
		return cli.reporter.JSON(result)
	}
	return cli.reporter.Handle(result)
}
