package state

import (
	"strings"

	"github.com/kk-code-lab/mdview/internal/inline"
	"github.com/kk-code-lab/mdview/internal/markdown"
	"github.com/kk-code-lab/mdview/internal/styledtext"
)

type tableLayout struct {
	widths []int
	header []tableCell
	rows   [][]tableCell
}

type tableBorders struct {
	topLeft, topSep, topRight          string
	midLeft, midSep, midRight          string
	bottomLeft, bottomSep, bottomRight string
	vertical                           string
}

func defaultTableBorders() tableBorders {
	return tableBorders{
		topLeft:     "┌",
		topSep:      "┬",
		topRight:    "┐",
		midLeft:     "├",
		midSep:      "┼",
		midRight:    "┤",
		bottomLeft:  "└",
		bottomSep:   "┴",
		bottomRight: "┘",
		vertical:    "│",
	}
}

type tableCell struct {
	lines []cellLine
}

type cellLine struct {
	runs  []styledtext.Run
	width int
}

func (b layoutBuilder) table(tbl markdown.Table, ctx blockContext) []Line {
	if len(tbl.Header) == 0 {
		return nil
	}
	headerAttrs := ctx.ambient
	headerAttrs.Bold = true
	render := func(nodes []markdown.InlineNode, attrs styledtext.Attributes) tableCell {
		return makeTableCell(inline.Render(nodes, inline.Options{
			BaseURL:       b.opts.BaseURL,
			Styles:        b.styles,
			Images:        b.opts.Images,
			SoftBreakMode: b.opts.SoftBreak,
			Attributes:    attrs,
		}))
	}

	header := make([]tableCell, len(tbl.Header))
	for i, cell := range tbl.Header {
		header[i] = render(cell, headerAttrs)
	}
	rows := make([][]tableCell, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rows[i] = make([]tableCell, len(tbl.Header))
		for j := range tbl.Header {
			var cell []markdown.InlineNode
			if j < len(row) {
				cell = row[j]
			}
			rows[i][j] = render(cell, ctx.ambient)
		}
	}

	layout := buildTableLayout(header, rows, ctx.width)
	return renderTable(layout, tbl.Align, defaultTableBorders(), b.opts.Theme.TableBorder())
}

func makeTableCell(text styledtext.Text) tableCell {
	var lines []cellLine
	for _, runs := range text.Lines() {
		runs = cleanRuns(runs)
		lines = append(lines, cellLine{runs: runs, width: styledtext.Width(runs)})
	}
	if len(lines) == 0 {
		lines = []cellLine{{}}
	}
	return tableCell{lines: lines}
}

func buildTableLayout(header []tableCell, rows [][]tableCell, maxWidth int) tableLayout {
	widths := computeColumnWidths(header, rows)
	widths = clampColumnWidths(widths, maxWidth)

	wrappedRows := make([][]tableCell, len(rows))
	for i, row := range rows {
		wrappedRows[i] = wrapCellsToWidth(row, widths)
	}
	return tableLayout{
		widths: widths,
		header: wrapCellsToWidth(header, widths),
		rows:   wrappedRows,
	}
}

func renderTable(layout tableLayout, align []markdown.Alignment, borders tableBorders, border styledtext.Attributes) []Line {
	hCells := make([]string, len(layout.widths))
	for i := range layout.widths {
		hCells[i] = strings.Repeat("─", layout.widths[i]+2)
	}
	borderLine := func(left, sep, right string) Line {
		return Line{Runs: []styledtext.Run{{Text: left + strings.Join(hCells, sep) + right, Attrs: border}}}
	}

	lines := []Line{borderLine(borders.topLeft, borders.topSep, borders.topRight)}
	for i := 0; i < cellBlockHeight(layout.header); i++ {
		lines = append(lines, renderTableRow(layout.header, i, layout.widths, align, borders.vertical, border))
	}
	lines = append(lines, borderLine(borders.midLeft, borders.midSep, borders.midRight))
	for _, row := range layout.rows {
		for i := 0; i < cellBlockHeight(row); i++ {
			lines = append(lines, renderTableRow(row, i, layout.widths, align, borders.vertical, border))
		}
	}
	return append(lines, borderLine(borders.bottomLeft, borders.bottomSep, borders.bottomRight))
}

func computeColumnWidths(header []tableCell, rows [][]tableCell) []int {
	widths := make([]int, len(header))
	update := func(cell tableCell, idx int) {
		for _, line := range cell.lines {
			widths[idx] = max(widths[idx], line.width)
		}
	}
	for i, cell := range header {
		update(cell, i)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				update(row[i], i)
			}
		}
	}
	return widths
}

func clampColumnWidths(widths []int, maxWidth int) []int {
	if maxWidth <= 0 || len(widths) == 0 {
		return widths
	}
	const minColWidth = 3
	total := tableWidth(widths)
	for total > maxWidth {
		idx := widestColumn(widths, minColWidth)
		if idx == -1 {
			break
		}
		widths[idx]--
		total--
	}
	return widths
}

func wrapCellsToWidth(cells []tableCell, widths []int) []tableCell {
	out := make([]tableCell, len(cells))
	for i, cell := range cells {
		width := 1
		if i < len(widths) {
			width = max(widths[i], 1)
		}
		var wrapped []cellLine
		for _, line := range cell.lines {
			for _, runs := range styledtext.Wrap(line.runs, width) {
				wrapped = append(wrapped, cellLine{runs: runs, width: styledtext.Width(runs)})
			}
		}
		if len(wrapped) == 0 {
			wrapped = []cellLine{{}}
		}
		out[i] = tableCell{lines: wrapped}
	}
	return out
}

func widestColumn(widths []int, minWidth int) int {
	maxIdx := -1
	maxVal := minWidth
	for i, w := range widths {
		if w > maxVal {
			maxVal = w
			maxIdx = i
		}
	}
	return maxIdx
}

func tableWidth(widths []int) int {
	if len(widths) == 0 {
		return 0
	}
	total := 0
	for _, w := range widths {
		total += w
	}
	// Each column gets 2 spaces + 1 border, plus one extra border at the end.
	return total + len(widths)*3 + 1
}

func renderTableRow(cells []tableCell, lineIdx int, widths []int, align []markdown.Alignment, vertical string, border styledtext.Attributes) Line {
	runs := []styledtext.Run{{Text: vertical + " ", Attrs: border}}
	for i, cell := range cells {
		var line cellLine
		if lineIdx < len(cell.lines) {
			line = cell.lines[lineIdx]
		}
		runs = append(runs, alignCell(line, widths[i], alignAt(i, align))...)
		sep := " " + vertical + " "
		if i == len(cells)-1 {
			sep = " " + vertical
		}
		runs = append(runs, styledtext.Run{Text: sep, Attrs: border})
	}
	return Line{Runs: runs}
}

func alignCell(line cellLine, width int, alignment markdown.Alignment) []styledtext.Run {
	space := max(width-line.width, 0)
	left, right := 0, space
	switch alignment {
	case markdown.AlignCenter:
		left = space / 2
		right = space - left
	case markdown.AlignRight:
		left = space
		right = 0
	}

	runs := make([]styledtext.Run, 0, 2+len(line.runs))
	if left > 0 {
		runs = append(runs, styledtext.Run{Text: strings.Repeat(" ", left)})
	}
	runs = append(runs, line.runs...)
	if right > 0 {
		runs = append(runs, styledtext.Run{Text: strings.Repeat(" ", right)})
	}
	return runs
}

func alignAt(idx int, align []markdown.Alignment) markdown.Alignment {
	if idx < len(align) {
		return align[idx]
	}
	return markdown.AlignDefault
}

func cellBlockHeight(cells []tableCell) int {
	height := 1
	for _, cell := range cells {
		height = max(height, len(cell.lines))
	}
	return height
}
