package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"waterglobe/adapters/excel"
	"waterglobe/adapters/rng"
	"waterglobe/domain/water"
	"waterglobe/internal/analysis"
	"waterglobe/internal/series"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var year int

	rootCmd := &cobra.Command{
		Use:           "waterglobe-cli",
		Short:         "Generate and export synthetic water series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().IntVar(&year, "year", 0, "Last year of the series (default: current year)")

	synth := func() *series.Synthesizer {
		if year > 0 {
			return series.NewSynthesizer(rng.NewAdapter(), series.WithFixedYear(year))
		}
		return series.NewSynthesizer(rng.NewAdapter())
	}

	rootCmd.AddCommand(
		newSeriesCmd(synth),
		newExportCmd(synth),
		newBatchCmd(synth),
		newVerifyCmd(synth),
		newDrawsCmd(),
		newCheckCmd(synth),
	)
	return rootCmd
}

func newSeriesCmd(synth func() *series.Synthesizer) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "series [name]",
		Short: "Print the series for a country as JSON",
		Long: `Print the 10-year reserve and usage series for a country name.
The name is the seed: the same name always yields the same series.

Example: waterglobe-cli series Turkey --year 2024 --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := synth().ForCountry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if summary {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"country": args[0],
					"series":  s,
					"summary": analysis.Summarize(s),
				})
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "Include summary statistics")
	return cmd
}

func newExportCmd(synth func() *series.Synthesizer) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Write the series to an .xlsx or .csv file",
		Long: `Write the series for a country to a spreadsheet. The format follows
the extension of --out.

Example: waterglobe-cli export Turkey --out turkey.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			s, err := synth().ForCountry(cmd.Context(), name)
			if err != nil {
				return err
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			defer f.Close()

			exporter := excel.NewExporter()
			switch strings.ToLower(filepath.Ext(outPath)) {
			case ".xlsx":
				err = exporter.WriteXLSX(f, name, s)
			case ".csv":
				err = exporter.WriteCSV(f, s)
			default:
				err = fmt.Errorf("unsupported export format %q (use .xlsx or .csv)", filepath.Ext(outPath))
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d-%d)\n", outPath, s.Years[0], s.CurrentYear())
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newBatchCmd(synth func() *series.Synthesizer) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [names...]",
		Short: "Generate series for several countries at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := synth()
			results, err := s.Batch(cmd.Context(), args, s.CurrentYear(), concurrency)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", series.DefaultBatchConcurrency, "Parallel generators")
	return cmd
}

func newVerifyCmd(synth func() *series.Synthesizer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [names...]",
		Short: "Check generated series against their shape and range rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := synth()
			var failed []string
			for _, name := range args {
				first, err := s.ForCountry(cmd.Context(), name)
				if err != nil {
					return err
				}
				second, err := s.ForCountry(cmd.Context(), name)
				if err != nil {
					return err
				}

				status := "ok"
				if err := first.Validate(); err != nil {
					status = err.Error()
				} else if !sameSeries(first, second) {
					status = "not deterministic"
				}
				if status != "ok" {
					failed = append(failed, name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", name, status)
			}
			if len(failed) > 0 {
				sort.Strings(failed)
				return fmt.Errorf("%d series failed verification: %s", len(failed), strings.Join(failed, ", "))
			}
			return nil
		},
	}
	return cmd
}

func newDrawsCmd() *cobra.Command {
	var (
		count  int
		expect []float64
	)

	cmd := &cobra.Command{
		Use:   "draws [key]",
		Short: "Print the first draws of the stream seeded by key",
		Long: `Print the first draws of the seeded stream, for comparing against
another implementation of the generator.

With --expect, the first draws are checked against the given values and
the command fails on the first mismatch.

Example: waterglobe-cli draws Turkey -n 3
         waterglobe-cli draws Turkey --expect 0.34555661492049694,0.9163377212826163`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(expect) > 0 {
				if err := rng.NewAdapter().ValidateSeed(cmd.Context(), args[0], expect); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d draws match\n", len(expect))
				return nil
			}

			stream := rng.NewStream(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "fold %d\n", rng.Fold(args[0]))
			for i := 0; i < count; i++ {
				fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, strconv.FormatFloat(stream.Next(), 'g', -1, 64))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of draws")
	cmd.Flags().Float64SliceVar(&expect, "expect", nil, "Expected first draws, comma separated")
	return cmd
}

func newCheckCmd(synth func() *series.Synthesizer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file.xlsx] [name]",
		Short: "Check an exported workbook against a freshly generated series",
		Long: `Read the Series sheet of a workbook written by export, validate it and
compare it with the series generated for name and the workbook's last year.

Example: waterglobe-cli check turkey.xlsx Turkey`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			stored, err := excel.ReadSeries(f)
			if err != nil {
				return err
			}
			if err := stored.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fresh, err := synth().ForYear(cmd.Context(), args[1], stored.CurrentYear())
			if err != nil {
				return err
			}
			if !sameSeries(stored, fresh) {
				return fmt.Errorf("%s does not match the series for %q ending %d", args[0], args[1], stored.CurrentYear())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s matches %q (%d-%d)\n", args[0], args[1], stored.Years[0], stored.CurrentYear())
			return nil
		},
	}
	return cmd
}

func sameSeries(a, b water.Series) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) == string(jb)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
