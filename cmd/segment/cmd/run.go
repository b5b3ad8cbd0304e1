package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/jengzang/travel-segments-go/internal/export"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/service"

	// Register analyzers
	_ "github.com/jengzang/travel-segments-go/internal/analysis/segments"
)

var runFlags struct {
	export            string
	format            string
	cutoffDate        string
	referenceDate     string
	activityThreshold int
	newCustomerDays   int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the segmentation pipeline once and print the summary",
	Example: `  segment run
  segment run --cutoff-date 2023-02-01 --activity-threshold 5
  segment run --export reports/ --format parquet`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		if runFlags.format != export.FormatJSON && runFlags.format != export.FormatParquet {
			return eris.Errorf("--format must be %s or %s", export.FormatJSON, export.FormatParquet)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
			return runSegmentation(ctx, cmd, a)
		})
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.export, "export", "", "Write the summary into this directory")
	runCmd.Flags().StringVar(&runFlags.format, "format", export.FormatJSON, "Export format: json or parquet")
	runCmd.Flags().StringVar(&runFlags.cutoffDate, "cutoff-date", "", "Ignore sessions before this date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runFlags.referenceDate, "reference-date", "", "Measure ages at this date (YYYY-MM-DD)")
	runCmd.Flags().IntVar(&runFlags.activityThreshold, "activity-threshold", 0, "Users need more sessions than this")
	runCmd.Flags().IntVar(&runFlags.newCustomerDays, "new-customer-days", 0, "Max days from signup to booking of a new customer")
}

func runSegmentation(ctx context.Context, cmd *cobra.Command, a *app) error {
	params := models.RunParams{
		CutoffDate:    runFlags.cutoffDate,
		ReferenceDate: runFlags.referenceDate,
	}
	if cmd.Flags().Changed("activity-threshold") {
		params.ActivityThreshold = &runFlags.activityThreshold
	}
	if cmd.Flags().Changed("new-customer-days") {
		params.NewCustomerDays = &runFlags.newCustomerDays
	}

	svc := service.NewSegmentationService(a.db, a.cfg.SegmentationOptions())
	run, err := svc.RunNow(ctx, params, "cli")
	if err != nil {
		return err
	}

	summary, err := svc.GetSummary(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d sessions, %d active users, %d segments\n\n",
		run.ID, run.SessionsConsidered, run.ActiveUsers, run.SegmentCount)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEGMENT\tUSERS\tBOOKING\tDISCOUNT\tWEEKDAY\tFLIGHT $\tHOTEL $\tACTION")
	for _, s := range summary {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			s.Segment, s.UserCount, s.AvgBookingRate, s.AvgDiscountRate, s.AvgWeekdayRate,
			s.AvgFlightCost, s.AvgHotelCost, s.RecommendedAction)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runFlags.export != "" {
		path, err := export.Summary(runFlags.export, runFlags.format, summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nExported %s\n", path)
	}
	return nil
}
