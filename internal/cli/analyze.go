package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"insightify/internal/domain"
	"insightify/internal/report"
)

type analyzeFlags struct {
	column  string
	top     int
	asJSON  bool
	maxRows int
	width   int
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.column, "column", "c", "", "Review text column (default: configured REVIEW_COLUMN)")
	cmd.Flags().IntVarP(&f.top, "top", "n", 0, "Number of top keywords (default: TOP_KEYWORDS)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "Print the analysis as JSON")
	cmd.Flags().IntVar(&f.maxRows, "rows", 0, "Limit the review table to N rows (0 for all)")
	cmd.Flags().IntVar(&f.width, "width", 60, "Truncate review text to this many columns")
}

func newAnalyzeCmd(env *Env) *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Classify the reviews of a CSV file and summarize them",
		Long: `Analyze reads a CSV file with a header row, classifies every review in
the review column and prints the sentiment distribution, top keywords and
the labeled reviews. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.top < 0 {
				return fmt.Errorf("--top must be positive")
			}
			in, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			svc, closeAll, err := env.Services(cmd.Context(), env.Config, nil)
			if err != nil {
				return err
			}
			defer closeAll()

			res, err := svc.WithTop(f.top).AnalyzeCSV(cmd.Context(), in, f.column)
			if err != nil {
				return reportChoice(cmd, err)
			}
			return printResult(cmd, res, f)
		},
	}
	f.register(cmd)
	return cmd
}

func printResult(cmd *cobra.Command, res domain.AnalysisResult, f analyzeFlags) error {
	v := report.NewView(res)
	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return report.Render(cmd.OutOrStdout(), v, report.Options{MaxRows: f.maxRows, ContentWidth: f.width})
}
