package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/octobees/presence-audit/internal/apperror"
	"github.com/octobees/presence-audit/internal/service"
	"github.com/octobees/presence-audit/internal/service/locator"
)

func newSelfCmd(cli *CLI) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "self",
		Short: "Score a self-audit checklist without any lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := LoadChecklist(path)
			if err != nil {
				return err
			}
			return cli.render(cli.opts.Self.CalculateSelfAudit(file.Checklist, file.Inputs))
		},
	}
	cmd.Flags().StringVar(&path, "checklist", "", "Path to the checklist answers file")
	_ = cmd.MarkFlagRequired("checklist")
	return cmd
}

func newStandardCmd(cli *CLI) *cobra.Command {
	var req service.StandardRequest
	cmd := &cobra.Command{
		Use:   "standard [query]",
		Short: "Benchmark a listing against five nearby competitors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.Query = strings.TrimSpace(args[0])
			}
			if req.PlaceID == "" && req.MapsURL == "" && req.Query == "" {
				return fmt.Errorf("a query, --place-id or --maps-url is required")
			}
			return cli.live(func(ctx context.Context, audits Auditor) error {
				result, err := audits.AnalyzeStandard(ctx, cli.caller, req, cli.opts.Limits.Daily)
				if err != nil {
					return describe(err)
				}
				return cli.render(result)
			})
		},
	}
	cmd.Flags().StringVar(&req.PlaceID, "place-id", "", "Provider place id")
	cmd.Flags().StringVar(&req.MapsURL, "maps-url", "", "Maps link to the listing")
	return cmd
}

func newProCmd(cli *CLI) *cobra.Command {
	var (
		req   service.ProRequest
		miles float64
		lite  int
	)
	cmd := &cobra.Command{
		Use:   "pro <business name>",
		Short: "Full audit against the ten strongest competitors in a radius",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				req.BusinessName = strings.TrimSpace(args[0])
			}
			if req.BusinessName == "" && req.PlaceID == "" {
				return fmt.Errorf("a business name or --place-id is required")
			}
			if miles <= 0 {
				return fmt.Errorf("--radius must be positive")
			}
			req.RadiusMeters = locator.MilesToMeters(miles)
			if cmd.Flags().Changed("lite-score") {
				if lite < 0 || lite > 100 {
					return fmt.Errorf("--lite-score must be between 0 and 100")
				}
				score := lite
				req.LiteScore = &score
			}
			return cli.live(func(ctx context.Context, audits Auditor) error {
				result, err := audits.AnalyzePro(ctx, cli.caller, req, cli.opts.Limits.ProDaily)
				if err != nil {
					return describe(err)
				}
				return cli.render(result)
			})
		},
	}
	cmd.Flags().StringVar(&req.Location, "location", "", "City or area used to disambiguate the name")
	cmd.Flags().StringVar(&req.PlaceID, "place-id", "", "Provider place id")
	cmd.Flags().Float64Var(&miles, "radius", cli.opts.Defaults.RadiusMiles, "Search radius in miles (1, 2, 3 or 5)")
	cmd.Flags().IntVar(&lite, "lite-score", 0, "Score of an earlier self-audit to compare against")
	return cmd
}

func newPredictCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <query>",
		Short: "List businesses matching a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.live(func(ctx context.Context, audits Auditor) error {
				predictions, err := audits.GetPredictions(ctx, cli.caller, args[0], cli.opts.Limits.Daily)
				if err != nil {
					return describe(err)
				}
				if cli.asJSON {
					return cli.reporter.JSON(predictions)
				}
				return cli.reporter.Predictions(predictions)
			})
		},
	}
}

// describe prefixes coded errors so scripts can match on the code.
func describe(err error) error {
	if code := apperror.CodeOf(err); code != "" {
		return fmt.Errorf("%s: %w", code, err)
	}
	return err
}
