package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"PinFlow/internal/app"
	"PinFlow/internal/config"
	"PinFlow/internal/logging"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pinflow",
		Short: "Scheduled Pinterest content bot",
		Long:  "PinFlow selects a content strategy, generates an AI image, publishes it as a pin, and tracks performance.",
	}

	root.AddCommand(runCmd(), postCmd(), batchCmd(), boardsCmd(), reportCmd())
	return root
}

func newApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()
			return application.RunScheduled(cmd.Context())
		},
	}
}

func postCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Generate and publish one pin now",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()
			return application.PostOnce(cmd.Context())
		},
	}
}

func batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [n]",
		Short: "Stage content for the next n days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed <= 0 {
					return fmt.Errorf("invalid batch size %q", args[0])
				}
				n = parsed
			}

			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()
			return application.Batch(cmd.Context(), n)
		},
	}
}

func boardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "Make sure the default boards exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			ids, err := application.EnsureBoards(cmd.Context())
			if err != nil {
				return err
			}
			for name, id := range ids {
				fmt.Printf("%s\t%s\n", id, name)
			}
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the weekly performance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Report(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Week %s — %s\n", report.From.Format("2006-01-02"), report.To.Format("2006-01-02"))
			fmt.Printf("Pins published:  %d\n", report.PinsPublished)
			fmt.Printf("Impressions:     %d\n", report.Impressions)
			fmt.Printf("Saves:           %d\n", report.Saves)
			fmt.Printf("Outbound clicks: %d\n", report.OutboundClicks)
			if report.TopNiche != "" {
				fmt.Printf("Top niche:       %s\n", report.TopNiche)
			}
			return nil
		},
	}
}
