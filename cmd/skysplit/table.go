package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderPairs renders a rounded two-column table. Every skysplit table is a
// label/value listing, so the only layout knob is whether the value column
// holds counts and should be right aligned.
func renderPairs(leftHeader, rightHeader string, rows [][2]string, numeric bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{leftHeader, rightHeader})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}

	valueAlign := text.AlignLeft
	if numeric {
		valueAlign = text.AlignRight
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: valueAlign, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
