package mysql

const columnsSQL = `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY ordinal_position
`

// loadReviewsSQL is completed with quoted identifiers by buildLoadReviews.
// Only NULL and empty values are skipped; whitespace-only text is a review.
const loadReviewsSQL = `
SELECT %[1]s
FROM %[2]s
WHERE %[1]s IS NOT NULL AND CHAR_LENGTH(%[1]s) > 0
`
