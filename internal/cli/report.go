package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"focustracker/internal/model"
	"focustracker/internal/repository"
	"focustracker/internal/service"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show focus statistics",
	}
	cmd.AddCommand(
		newReportSummaryCmd(opts),
		newReportDailyCmd(opts),
		newReportSessionsCmd(opts),
	)
	return cmd
}

func withReports(opts *rootOptions, fn func(*service.ReportService) error) error {
	database, err := opts.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fn(service.NewReportService(repository.NewSessionRepository(database), logger))
}

func newReportSummaryCmd(opts *rootOptions) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(opts, func(reports *service.ReportService) error {
				summary, apiErr := reports.Summary(cmd.Context(), period)
				if apiErr != nil {
					return apiErr
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "period:          %s\n", summary.Period)
				fmt.Fprintf(out, "sessions:        %d\n", summary.TotalSessions)
				fmt.Fprintf(out, "focused:         %s\n", model.FormatClock(summary.TotalDurationSeconds))
				fmt.Fprintf(out, "average:         %s\n", model.FormatClock(int(summary.AverageSessionSeconds)))
				fmt.Fprintf(out, "today:           %s\n", model.FormatClock(summary.TodayDurationSeconds))
				fmt.Fprintf(out, "distractions:    %d\n", summary.TotalDistractions)
				if summary.MostProductiveCategory != "" {
					fmt.Fprintf(out, "most productive: %s\n", summary.MostProductiveCategory)
				}

				if len(summary.Categories) == 0 {
					return nil
				}
				fmt.Fprintln(out)
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CATEGORY\tFOCUSED")
				for _, category := range summary.Categories {
					fmt.Fprintf(w, "%s\t%s\n", category.Name, model.FormatClock(category.TotalDurationSeconds))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&period, "period", "week", "week, month or all")
	return cmd
}

func newReportDailyCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Focused minutes per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(opts, func(reports *service.ReportService) error {
				totals, apiErr := reports.Daily(cmd.Context(), days)
				if apiErr != nil {
					return apiErr
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DAY\tFOCUSED")
				for _, day := range totals {
					fmt.Fprintf(w, "%s\t%s\n", day.Date.Format("Mon 2006-01-02"), model.FormatClock(day.TotalDurationSeconds))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", service.DefaultActivityDays, "number of days ending today")
	return cmd
}

func newReportSessionsCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Most recent completed work sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(opts, func(reports *service.ReportService) error {
				sessions, apiErr := reports.Recent(cmd.Context(), limit)
				if apiErr != nil {
					return apiErr
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "COMPLETED\tCATEGORY\tDURATION\tDISTRACTIONS")
				for _, session := range sessions {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
						session.CompletedAt.Local().Format("2006-01-02 15:04"),
						session.Category,
						model.FormatClock(session.DurationSeconds),
						session.Distractions,
					)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sessions to show")
	return cmd
}
