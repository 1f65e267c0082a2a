package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	mysqlsrc "insightify/internal/storage/mysql"
)

func newAnalyzeTableCmd(env *Env) *cobra.Command {
	var (
		f     analyzeFlags
		table string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "analyze-table",
		Short: "Classify reviews stored in a MySQL table (MYSQL_DSN)",
		Long: `Analyze-table reads the review column of an existing MySQL table and
runs the same analysis as "analyze". The table is only read.

Examples:
  MYSQL_DSN='user:pass@tcp(localhost:3306)/shop' insightify analyze-table --table reviews
  insightify analyze-table --table reviews --column comment_text --limit 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if env.Config.MySQLDSN == "" {
				return fmt.Errorf("MYSQL_DSN is not set")
			}
			db, err := env.OpenDB(env.Config.MySQLDSN)
			if err != nil {
				return fmt.Errorf("connect mysql: %w", err)
			}
			defer db.Close()

			svc, closeAll, err := env.Services(cmd.Context(), env.Config, mysqlsrc.New(db))
			if err != nil {
				return err
			}
			defer closeAll()

			res, err := svc.WithTop(f.top).AnalyzeSource(cmd.Context(), table, f.column, limit)
			if err != nil {
				return reportChoice(cmd, err)
			}
			return printResult(cmd, res, f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&table, "table", "t", "", "Table holding the reviews")
	cmd.Flags().IntVar(&limit, "limit", 0, "Read at most N reviews (0 for all)")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
