package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a CLI table. Width is an upper bound: a column
// shrinks to its widest cell but never below its title.
type TableColumn struct {
	Title string
	Width int
}

// fitColumns sizes each column to its content, capped at the column's Width.
func fitColumns(columns []TableColumn, rows [][]string) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		width := lipgloss.Width(c.Title)
		for _, row := range rows {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > width {
					width = w
				}
			}
		}
		if limit := max(c.Width, lipgloss.Width(c.Title)); c.Width > 0 && width > limit {
			width = limit
		}
		cols[i] = table.Column{Title: c.Title, Width: width}
	}
	return cols
}

// tableStyles is the bubbles table styling for static output. Nothing is
// focused, so the selected row renders like the others.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	s.Selected = lipgloss.NewStyle()
	return s
}

// RenderSimpleTable renders rows as a static table for CLI output (scan
// results, history rows). Cells wider than their column are truncated.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := table.New(
		table.WithColumns(fitColumns(columns, rows)),
		table.WithRows(tableRows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1),
	)
	t.SetStyles(tableStyles())
	return t.View()
}

// KVRow is one labelled line of a key/value block.
type KVRow struct {
	Key   string
	Value string
	// Color overrides the value color when set.
	Color lipgloss.Color
}

// RenderKV renders an aligned key/value block under an optional title, the
// layout used by the status and settings commands.
func RenderKV(title string, rows []KVRow) string {
	if len(rows) == 0 {
		return ""
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

	width := 0
	for _, r := range rows {
		if w := lipgloss.Width(r.Key); w > width {
			width = w
		}
	}

	var output string
	if title != "" {
		output += titleStyle.Render(title) + "\n"
	}
	for _, r := range rows {
		value := r.Value
		if r.Color != "" {
			value = lipgloss.NewStyle().Foreground(r.Color).Render(value)
		}
		output += "  " + keyStyle.Render(padRight(r.Key, width)) + "  " + value + "\n"
	}
	return output
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
