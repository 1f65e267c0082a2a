package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"insightify/internal/app"
)

func newColumnsCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE",
		Short: "List the columns of a CSV file and mark the text ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer in.Close()

			// Column listing never needs a classifier.
			svc := app.NewAnalysisService(nil, env.Config.ReviewColumn, nil)
			v, err := svc.Columns(in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range v.Columns {
				mark := " "
				if slices.Contains(v.Textual, c) {
					mark = "*"
				}
				if c == v.Default {
					mark = ">"
				}
				fmt.Fprintf(w, "%s %s\n", mark, c)
			}
			fmt.Fprintln(w, "\n> default review column, * text column")
			if !v.HasDefault && len(v.Candidates) > 0 {
				fmt.Fprintf(w, "suggested: %s\n", v.Candidates[0])
			}
			return nil
		},
	}
}
