// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/invowk/procline/internal/container"
)

// renderTable writes a borderless, column-aligned table.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	fmt.Fprintln(w, t.String())
}

// warnMalformed reports rows the engine printed in an unexpected shape.
// They are skipped, not fatal.
func (a *App) warnMalformed(rows []*container.MalformedRowError) {
	for _, row := range rows {
		a.logger.Warn("skipped malformed row", "row", row.Row, "want", row.Want, "got", row.Got)
		a.logger.Debug("malformed row content", "line", row.Line)
	}
}
