package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"insightify/internal/domain"
)

var (
	PositiveColor = lipgloss.Color("#66bb6a")
	NeutralColor  = lipgloss.Color("#ffee58")
	NegativeColor = lipgloss.Color("#ef5350")
	MutedColor    = lipgloss.Color("#9CA3AF")
	AccentColor   = lipgloss.Color("#A78BFA")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(AccentColor).MarginBottom(1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func labelColor(l domain.Label) lipgloss.Color {
	switch l {
	case domain.Positive:
		return PositiveColor
	case domain.Negative:
		return NegativeColor
	case domain.Neutral:
		return NeutralColor
	}
	return MutedColor
}

// Options tunes the terminal report.
type Options struct {
	BarWidth     int // width of the longest bar
	ContentWidth int // review text is truncated to this many columns
	MaxRows      int // 0 shows every row
}

func (o Options) withDefaults() Options {
	if o.BarWidth <= 0 {
		o.BarWidth = 40
	}
	if o.ContentWidth <= 0 {
		o.ContentWidth = 60
	}
	return o
}

// Render writes the summary, distribution bars, top keywords and row table.
func Render(w io.Writer, v View, o Options) error {
	o = o.withDefaults()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Sentiment analysis · column " + strconv.Quote(v.Column)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d reviews analyzed", v.Summary.Analyzed)
	if v.Summary.Excluded > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" (%d excluded after classification errors)", v.Summary.Excluded)))
	}
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Sentiment distribution"))
	b.WriteString("\n")
	if len(v.Distribution) == 0 {
		b.WriteString(mutedStyle.Render("no classified reviews"))
		b.WriteString("\n")
	}
	for _, d := range v.Distribution {
		b.WriteString(distributionLine(d, o.BarWidth))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(fmt.Sprintf("Top %d keywords", len(v.TopKeywords))))
	b.WriteString("\n")
	b.WriteString(keywordBars(v.TopKeywords, o.BarWidth))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Reviews"))
	b.WriteString("\n")
	b.WriteString(rowTable(v.Rows, o).Render())
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func distributionLine(d domain.SentimentCount, width int) string {
	n := int(d.Percent/100*float64(width) + 0.5)
	bar := lipgloss.NewStyle().Foreground(labelColor(d.Label)).Render(strings.Repeat("█", n))
	return fmt.Sprintf("%-9s %s %d (%.1f%%)", d.Label, bar, d.Count, d.Percent)
}

func keywordBars(kw []domain.KeywordCount, width int) string {
	if len(kw) == 0 {
		return mutedStyle.Render("no keywords") + "\n"
	}
	maxCount, maxLen := 0, 0
	for _, k := range kw {
		maxCount = max(maxCount, k.Count)
		maxLen = max(maxLen, lipgloss.Width(k.Keyword))
	}
	bar := lipgloss.NewStyle().Foreground(AccentColor)
	var b strings.Builder
	for _, k := range kw {
		n := max(1, k.Count*width/maxCount)
		pad := strings.Repeat(" ", maxLen-lipgloss.Width(k.Keyword))
		fmt.Fprintf(&b, "%s%s %s %d\n", k.Keyword, pad, bar.Render(strings.Repeat("▇", n)), k.Count)
	}
	return b.String()
}

func rowTable(rows []Row, o Options) *table.Table {
	shown := rows
	if o.MaxRows > 0 && len(shown) > o.MaxRows {
		shown = shown[:o.MaxRows]
	}
	labels := make([]domain.Label, len(shown))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Row", "Review", "Sentiment")
	for i, r := range shown {
		labels[i] = r.Sentiment
		content := strings.Join(strings.Fields(r.Content), " ")
		t.Row(strconv.Itoa(r.Row), ansi.Truncate(content, o.ContentWidth, "..."), string(r.Sentiment))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if col == 2 && row >= 0 && row < len(labels) {
			return cellStyle.Foreground(labelColor(labels[row]))
		}
		return cellStyle
	})
	return t
}
