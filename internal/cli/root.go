// Package cli implements the insightify command line.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"insightify/internal/app"
	"insightify/internal/domain"
	"insightify/internal/shared"
	"insightify/internal/wiring"
)

// ServicesFunc builds the analysis service for a run. src may be nil.
type ServicesFunc func(ctx context.Context, cfg shared.Config, src domain.ReviewSource) (*app.AnalysisService, func(), error)

// Env carries what the commands need from the outside world.
type Env struct {
	Config   shared.Config
	Services ServicesFunc
	OpenDB   func(dsn string) (*sql.DB, error)
}

// DefaultEnv wires the configured backend, cache and MySQL driver.
func DefaultEnv(cfg shared.Config) *Env {
	return &Env{
		Config: cfg,
		Services: func(ctx context.Context, cfg shared.Config, src domain.ReviewSource) (*app.AnalysisService, func(), error) {
			_, svc, closeAll, err := wiring.Services(ctx, cfg, src)
			return svc, closeAll, err
		},
		OpenDB: func(dsn string) (*sql.DB, error) {
			db, err := sql.Open("mysql", dsn)
			if err != nil {
				return nil, err
			}
			if err := db.Ping(); err != nil {
				_ = db.Close()
				return nil, err
			}
			return db, nil
		},
	}
}

// ErrColumnChoice is returned after candidates were printed so main can exit
// non-zero without printing the error twice.
var ErrColumnChoice = errors.New("review column must be chosen with --column")

func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "insightify",
		Short: "Sentiment and keyword analysis for product review files",
		Long: `Insightify classifies every review of a CSV file (or database table) as
positive, neutral or negative, counts keywords and prints a summary.

Examples:
  # Analyze the "Ulasan" column of a file
  insightify analyze reviews.csv

  # Pick another column and keep 10 keywords
  insightify analyze reviews.csv --column Komentar --top 10

  # Inspect the columns of a file first
  insightify columns reviews.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(env), newColumnsCmd(env), newAnalyzeTableCmd(env))
	return root
}

func openFile(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// reportChoice prints the candidates of a ColumnChoiceError and converts it
// into ErrColumnChoice.
func reportChoice(cmd *cobra.Command, err error) error {
	var choice *domain.ColumnChoiceError
	if !errors.As(err, &choice) {
		return err
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Column %q not found. Text columns that may hold reviews:\n", choice.Default)
	for _, c := range choice.Candidates {
		fmt.Fprintf(w, "  - %s\n", c)
	}
	fmt.Fprintln(w, "Run again with --column <name>.")
	return ErrColumnChoice
}
