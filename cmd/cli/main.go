// Package main provides advisor-cli, a terminal front end to the same
// pipeline the HTTP server runs.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aspirebot/crypto-advisor/internal/app"
	"github.com/aspirebot/crypto-advisor/internal/config"
	"github.com/aspirebot/crypto-advisor/internal/market"
	"github.com/aspirebot/crypto-advisor/internal/model"
	"github.com/aspirebot/crypto-advisor/internal/prompt"
	"github.com/aspirebot/crypto-advisor/internal/validation"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "advisor-cli",
		Short:        "Crypto advisor command line tools",
		SilenceUsage: true,
	}

	root.AddCommand(pricesCmd())
	root.AddCommand(promptCmd())
	root.AddCommand(recommendCmd())
	return root
}

// preferences are the request fields settable from flags.
type preferences struct {
	budget        string
	riskTolerance string
	duration      string
	goal          string
	interest      string
}

func (p *preferences) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.budget, "budget", "", "Investment budget, e.g. 5000")
	cmd.Flags().StringVar(&p.riskTolerance, "risk-tolerance", "", "Risk tolerance, e.g. low")
	cmd.Flags().StringVar(&p.duration, "duration", "", "Investment duration, e.g. 1y")
	cmd.Flags().StringVar(&p.goal, "goal", "", "Investment goal, e.g. growth")
	cmd.Flags().StringVar(&p.interest, "interest", "", "Cryptocurrencies of interest")
}

// request runs the flags through the same validator as the HTTP body, so
// unset flags behave like omitted fields.
func (p *preferences) request(cmd *cobra.Command) (*model.RecommendationRequest, error) {
	body := map[string]string{}
	set := func(flag, field, value string) {
		if cmd.Flags().Changed(flag) {
			body[field] = value
		}
	}
	set("budget", "budget", p.budget)
	set("risk-tolerance", "risk_tolerance", p.riskTolerance)
	set("duration", "duration", p.duration)
	set("goal", "goal", p.goal)
	set("interest", "interest", p.interest)

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}

	validator, err := validation.NewRequestValidator()
	if err != nil {
		return nil, err
	}
	req, _, err := validator.Decode(raw)
	return req, err
}

func pricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Print the current market snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snapshot, err := market.NewCoinGeckoFetcher(cfg.Market, logger).Fetch(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, snapshot)
		},
	}
}

func promptCmd() *cobra.Command {
	var prefs preferences

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the prompt for the given preferences without calling any model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := prefs.request(cmd)
			if err != nil {
				return err
			}

			builder, err := prompt.NewBuilder(cfg.Prompt.TemplatePath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snapshot, err := market.NewCoinGeckoFetcher(cfg.Market, logger).Fetch(ctx)
			if err != nil {
				return err
			}

			text, err := builder.Build(req, snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	prefs.bind(cmd)
	return cmd
}

func recommendCmd() *cobra.Command {
	var prefs preferences

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run the full recommendation pipeline once and print the JSON response",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			req, err := prefs.request(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Service.Recommend(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	prefs.bind(cmd)
	return cmd
}

// setup loads .env and configuration and returns a development logger on stderr.
func setup() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := config.Load(os.Getenv("ADVISOR_CONFIG_PATH"))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

