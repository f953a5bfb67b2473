package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/santralytics/santralytics/app"
	"github.com/santralytics/santralytics/config"
	"github.com/santralytics/santralytics/infra/logger"
)

var reportFlags struct {
	plant1 string
	plant2 string
	start  string
	end    string
	out    string
	csv    bool
	json   bool
	pdf    bool
	html   bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch market data and write the comparison workbook",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.plant1, "plant1", "", "first plant name")
	f.StringVar(&reportFlags.plant2, "plant2", "", "second plant name")
	f.StringVar(&reportFlags.start, "start", "", "range start (YYYY-MM-DD)")
	f.StringVar(&reportFlags.end, "end", "", "range end (YYYY-MM-DD, inclusive)")
	f.StringVar(&reportFlags.out, "out", "", "output directory")
	f.BoolVar(&reportFlags.csv, "csv", false, "also write the hourly detail as CSV per plant")
	f.BoolVar(&reportFlags.json, "json", false, "also write the monthly summary as JSON")
	f.BoolVar(&reportFlags.pdf, "pdf", false, "also write the monthly summary as PDF")
	f.BoolVar(&reportFlags.html, "html", false, "also write the monthly chart as HTML")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	mergeReportFlags(cmd, &cfg.Report)

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	// Progress goes to stderr so stdout stays machine readable.
	sub := svc.Progress().Subscribe()
	go func() {
		for ev := range sub {
			fmt.Fprintln(cmd.ErrOrStderr(), ev)
		}
	}()

	res, err := svc.GenerateReport(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Workbook)
	for _, p := range res.Extras {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

// mergeReportFlags overlays command line flags on the config file values.
func mergeReportFlags(cmd *cobra.Command, r *config.ReportConfig) {
	if reportFlags.plant1 != "" {
		r.Plant1 = reportFlags.plant1
	}
	if reportFlags.plant2 != "" {
		r.Plant2 = reportFlags.plant2
	}
	if reportFlags.start != "" {
		r.StartDate = reportFlags.start
	}
	if reportFlags.end != "" {
		r.EndDate = reportFlags.end
	}
	if reportFlags.out != "" {
		r.OutputDir = reportFlags.out
	}
	flags := cmd.Flags()
	if flags.Changed("csv") {
		r.CSV = reportFlags.csv
	}
	if flags.Changed("json") {
		r.JSON = reportFlags.json
	}
	if flags.Changed("pdf") {
		r.PDF = reportFlags.pdf
	}
	if flags.Changed("html") {
		r.HTML = reportFlags.html
	}
}
