package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"

	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/ops"
	"github.com/hpungsan/combo/internal/session"
)

// NewTable creates a table writing to w with consistent styling.
func NewTable(w io.Writer, headers ...interface{}) table.Table {
	tbl := table.New(headers...).WithWriter(w)

	tbl.WithFirstColumnFormatter(func(format string, vals ...interface{}) string {
		return BoldStyle.Render(fmt.Sprintf(format, vals...))
	})
	tbl.WithPadding(2)

	// ANSI codes must not count towards column width
	tbl.WithWidthFunc(lipgloss.Width)

	return tbl
}

// Card renders the current combination.
func Card(v *ops.View) string {
	lines := []string{
		NumberStyle.Render(v.Number) + "  " + ComboStyle.Render(v.Description),
	}
	if v.URL != "" {
		lines = append(lines, LinkStyle.Render(v.URL))
	}
	if v.Current != nil {
		lines = append(lines, DimStyle.Render(facets(*v.Current)))
	}
	lines = append(lines, DimStyle.Render(position(v)))
	return CardStyle.Render(strings.Join(lines, "\n"))
}

// Selections renders the active filters on one line.
func Selections(sel session.Selections) string {
	return fmt.Sprintf("distance=%s defence=%s faint=%s body=%s",
		sel.Distance, sel.Defence, sel.Faint, sel.Body)
}

// PrintCard writes the card and filter line for v.
func PrintCard(w io.Writer, v *ops.View) {
	fmt.Fprintln(w, Card(v))
	fmt.Fprintln(w, DimStyle.Render(Selections(v.Selections)))
}

// PrintList writes the working set as a table. Rows are numbered from 1.
func PrintList(w io.Writer, v *ops.View) {
	if v.Empty() {
		fmt.Fprintln(w, DimStyle.Render("No combinations match "+Selections(v.Selections)))
		return
	}
	tbl := NewTable(w, "#", "Combination", "Distance", "Defense", "Faint", "Body", "Link")
	for _, item := range v.Items {
		marker := fmt.Sprintf("%d", item.Index+1)
		if item.Current {
			marker = "> " + marker
		}
		tbl.AddRow(marker, item.Description, item.Distance, item.Defense, item.Faint, item.Body, item.Link())
	}
	tbl.Print()
}

// PrintHistory writes practice log rows as a table.
func PrintHistory(w io.Writer, drills []db.Drill) {
	if len(drills) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No drills recorded yet"))
		return
	}
	tbl := NewTable(w, "When", "Combination", "Action", "Step")
	for _, d := range drills {
		tbl.AddRow(formatTime(d.CreatedAt), d.Description, d.Action, d.Step)
	}
	tbl.Print()
}

// PrintTop writes the most drilled descriptions as a table.
func PrintTop(w io.Writer, counts []db.DescriptionCount) {
	if len(counts) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No drills recorded yet"))
		return
	}
	tbl := NewTable(w, "Combination", "Count", "Last")
	for _, c := range counts {
		tbl.AddRow(c.Description, c.Count, formatTime(c.LastAt))
	}
	tbl.Print()
}

func facets(c combination.Combination) string {
	parts := []string{string(c.Distance)}
	for _, f := range []struct {
		name string
		v    combination.YesNo
	}{{"defense", c.Defense}, {"faint", c.Faint}, {"body", c.Body}} {
		if f.v == combination.Yes {
			parts = append(parts, f.name)
		} else {
			parts = append(parts, "no "+f.name)
		}
	}
	return strings.Join(parts, " · ")
}

func position(v *ops.View) string {
	if v.Empty() {
		return fmt.Sprintf("0 of %d match", v.Total)
	}
	return fmt.Sprintf("%d/%d (%d loaded)", v.Cursor+1, v.Size, v.Total)
}
