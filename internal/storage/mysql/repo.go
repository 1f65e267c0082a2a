package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"insightify/internal/domain"
)

var (
	ErrInvalidIdentifier = errors.New("mysql: invalid identifier")
	ErrTableNotFound     = errors.New("mysql: table not found")
)

var identRe = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

var textualTypes = map[string]bool{
	"char": true, "varchar": true,
	"tinytext": true, "text": true, "mediumtext": true, "longtext": true,
}

// Source reads reviews from an existing table. It never writes.
type Source struct{ db *sql.DB }

func New(db *sql.DB) *Source { return &Source{db: db} }

func (s *Source) Columns(ctx context.Context, table string) ([]domain.TableColumn, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	rows, err := s.db.QueryContext(ctx, columnsSQL, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TableColumn
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, err
		}
		out = append(out, domain.TableColumn{Name: name, Textual: textualTypes[strings.ToLower(typ)]})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
	}
	return out, nil
}

// LoadReviews returns the non-empty values of column in table order. Row is
// the 0-based position among the returned reviews. limit <= 0 means no limit.
func (s *Source) LoadReviews(ctx context.Context, table, column string, limit int) ([]domain.Review, error) {
	q, err := buildLoadReviews(table, column, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if !v.Valid || v.String == "" {
			continue
		}
		out = append(out, domain.Review{Row: len(out), Content: v.String})
	}
	return out, rows.Err()
}

func buildLoadReviews(table, column string, limit int) (string, error) {
	for _, id := range []string{table, column} {
		if !identRe.MatchString(id) {
			return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
	}
	q := fmt.Sprintf(loadReviewsSQL, quoteIdent(column), quoteIdent(table))
	if limit > 0 {
		q += fmt.Sprintf("LIMIT %d\n", limit)
	}
	return q, nil
}

func quoteIdent(s string) string { return "`" + s + "`" }
