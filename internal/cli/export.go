package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"residents/internal/export"
)

// NewExportCommand creates the export command and its subcommands.
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard views to files",
	}
	cmd.AddCommand(newExportXLSXCommand())
	cmd.AddCommand(newExportChartsCommand())
	return cmd
}

func newExportXLSXCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "xlsx",
		Short:   "Write a workbook with one sheet per view",
		Example: `  residents export xlsx --out residents.xlsx`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, cfg, err := loadTable(cmd.Context())
			if err != nil {
				return err
			}
			data := t.Aggregate(viewOptions(cfg))
			if err := export.WriteWorkbook(data, out, GetLogger(cmd.Context())); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "residents.xlsx", "Workbook path")
	return cmd
}

func newExportChartsCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:     "charts",
		Short:   "Render trend, gender-ratio and growth charts as PNG",
		Example: `  residents export charts --dir charts/`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, cfg, err := loadTable(cmd.Context())
			if err != nil {
				return err
			}
			data := t.Aggregate(viewOptions(cfg))
			paths, err := export.WriteCharts(data, dir, GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			for _, p := range paths {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "charts", "Output directory")
	return cmd
}
