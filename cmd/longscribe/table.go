package main

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leonardotrapani/longscribe/internal/chunk"
	"github.com/leonardotrapani/longscribe/internal/deps"
	"github.com/leonardotrapani/longscribe/internal/provider"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// formatClock renders seconds as h:mm:ss.s
func formatClock(seconds float64) string {
	h := int(seconds) / 3600
	m := int(seconds) / 60 % 60
	s := math.Mod(seconds, 60)
	return fmt.Sprintf("%d:%02d:%04.1f", h, m, s)
}

func renderPlan(w io.Writer, input string, plan chunk.Plan, ext string) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s: %s in %d chunks", filepath.Base(input), formatClock(plan.Duration), plan.Len()))
	t.AppendHeader(table.Row{"#", "Start", "End", "Length", "File"})
	for _, win := range plan.Windows {
		t.AppendRow(table.Row{
			win.Index,
			formatClock(win.Start),
			formatClock(win.End()),
			fmt.Sprintf("%.1fs", win.Length),
			fmt.Sprintf("chunk_%04d%s", win.Index, ext),
		})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%.1fs", plan.Duration), fmt.Sprintf("overlap %.1fs", plan.Overlap)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

func renderTools(w io.Writer, statuses []deps.Status) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Tool", "Status", "Path", "Version"})
	for _, s := range statuses {
		state := "missing"
		if s.Installed {
			state = "ok"
		}
		t.AppendRow(table.Row{s.Name, state, s.Path, s.Version})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 60},
	})
	t.Render()
}

type modelRow struct {
	Provider  string
	Model     provider.Model
	Default   bool
	Languages string
	Installed string
}

func renderModels(w io.Writer, rows []modelRow) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Provider", "Model", "Description", "Languages", "Upload limit", "Local"})
	for _, r := range rows {
		id := r.Model.ID
		if r.Default {
			id += " *"
		}
		limit := "-"
		if r.Model.MaxUploadMB > 0 {
			limit = fmt.Sprintf("%d MB", r.Model.MaxUploadMB)
		}
		t.AppendRow(table.Row{r.Provider, id, r.Model.Description, r.Languages, limit, r.Installed})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 3, WidthMax: 48},
		{Number: 5, Align: text.AlignRight},
	})
	t.SetCaption("* default model for the provider")
	t.Render()
}
