package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gograph/adapters/excel"
	"gograph/adapters/sqlstore"
	"gograph/app"
	"gograph/domain/chart"
	"gograph/internal/config"
	"gograph/internal/export"
	"gograph/internal/migration"
	"gograph/internal/render"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// openSession decodes path into a fresh session sized to vp
func openSession(ctx context.Context, path string, vp render.Viewport) (*app.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sess := app.NewSession(app.Options{Viewport: vp})
	decoder := excel.NewDecoder(excel.DefaultDecoderConfig())
	if err := sess.Load(ctx, decoder, f, path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return sess, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newProfileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile [file]",
		Short: "Classify every column of a CSV or Excel file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), args[0], render.Viewport{})
			if err != nil {
				return err
			}
			profiles := sess.Profiles()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), profiles)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tNUMERIC\tDATE\tUNIQUE\tNON-EMPTY")
			for _, p := range profiles {
				fmt.Fprintf(tw, "%s\t%t\t%t\t%d\t%d\n", p.Name, p.IsNumeric, p.IsDate, p.UniqueValueCount, p.TotalNonEmptyValues)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print profiles as JSON")
	return cmd
}

func newAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability [file]",
		Short: "List which chart types the data supports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), args[0], render.Viewport{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, a := range sess.Availability() {
				if a.Available {
					fmt.Fprintf(out, "✅ %s\n", a.ChartType)
				} else {
					fmt.Fprintf(out, "❌ %s: %s\n", a.ChartType, a.Reason)
				}
			}
			return nil
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "summary [file]",
		Short: "Print mean, median, mode and range of a numeric column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), args[0], render.Viewport{})
			if err != nil {
				return err
			}
			summary, err := sess.Summary(column)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Numeric column to summarize")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		spec          chart.Spec
		chartType     string
		format        string
		out           string
		width, height int
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart and export it as PNG, JPEG or PDF",
		Long: `Render one chart from a CSV or Excel file and write the exported image.

Examples:
  gograph-cli render sales.csv --type bar --category region --value sales --out sales.png
  gograph-cli render sales.csv --type histogram --column sales --format pdf --out hist.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := chart.ParseType(chartType)
			if err != nil {
				return err
			}
			spec.ChartType = t
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = "chart." + f.Extension()
			}

			sess, err := openSession(cmd.Context(), args[0], render.Viewport{Width: width, Height: height})
			if err != nil {
				return err
			}
			if _, err := sess.SelectChart(spec); err != nil {
				return err
			}
			art, err := sess.Export(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, art.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📊 wrote %s chart to %s (%d bytes)\n", t, out, len(art.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&chartType, "type", "", "Chart type: bar|line|pie|scatter|histogram|box")
	cmd.Flags().StringVar(&spec.CategoryColumn, "category", "", "Category (x) column")
	cmd.Flags().StringVar(&spec.ValueColumn, "value", "", "Value (y) column")
	cmd.Flags().StringVar(&spec.SingleColumn, "column", "", "Column for histogram and box plots")
	cmd.Flags().StringVar(&format, "format", "png", "Export format: png|jpeg|pdf")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default chart.<format>)")
	cmd.Flags().IntVar(&width, "width", 800, "Surface width in pixels")
	cmd.Flags().IntVar(&height, "height", 500, "Surface height in pixels")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newReportCmd() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Print a markdown data report: columns, chart types and a preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd.Context(), args[0], render.Viewport{})
			if err != nil {
				return err
			}
			rep, err := sess.Report()
			if err != nil {
				return err
			}
			if asHTML {
				_, err = cmd.OutOrStdout().Write(rep.HTML)
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), rep.Markdown)
			return err
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := sqlstore.Open(cmd.Context(), cfg.Database.Driver, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %s\n", migration.NewRunner().Version())
			return nil
		},
	}
}
