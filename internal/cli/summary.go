//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/LFoster03/smart-store-07/internal/datagen"
	"github.com/LFoster03/smart-store-07/internal/prepare"
	"github.com/LFoster03/smart-store-07/internal/warehouse"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func itoa[T int | int64](n T) string {
	return strconv.FormatInt(int64(n), 10)
}

func status(s string) string {
	if noColor {
		return s
	}
	switch s {
	case warehouse.StatusOK:
		return color.GreenString(s)
	case warehouse.StatusWarning:
		return color.YellowString(s)
	case warehouse.StatusFailed:
		return color.RedString(s)
	}
	return s
}

func heading(w io.Writer, title string) {
	if noColor {
		fmt.Fprintln(w, title)
		return
	}
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
}

// printPrepareReport renders the cleaning counts per table.
func printPrepareReport(w io.Writer, r *prepare.Report) {
	heading(w, fmt.Sprintf("Prepared tables (reference date %s)", r.ReferenceDate))
	table := newTable(w, "Table", "Read", "Duplicates", "Missing", "Duplicate Keys", "Dates Coerced", "Written")
	for _, t := range r.Tables {
		table.Append([]string{
			t.Table,
			itoa(t.RowsRead),
			itoa(t.DuplicatesDropped),
			itoa(t.MissingDropped),
			itoa(t.DuplicateKeysDropped),
			itoa(t.DatesCoerced),
			itoa(t.RowsWritten),
		})
	}
	table.Render()
	fmt.Fprintln(w)
}

// printBuildReport renders one row per build step and one per loaded table.
func printBuildReport(w io.Writer, r *warehouse.BuildReport) {
	heading(w, fmt.Sprintf("Warehouse build %s on %s: %s in %s",
		r.RunID, r.Target, r.FinalState, r.Duration.Round(time.Millisecond)))

	steps := newTable(w, "Step", "Status", "Duration", "Error")
	for _, s := range r.Steps {
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		steps.Append([]string{s.Name, status(s.Status), s.Duration.Round(time.Millisecond).String(), errText})
	}
	steps.Render()
	fmt.Fprintln(w)

	if loaded := r.Tables(); len(loaded) > 0 {
		tables := newTable(w, "Table", "Read", "Loaded", "Rejected", "Nulled")
		for _, t := range loaded {
			tables.Append([]string{t.Table, itoa(t.Read), itoa(t.Loaded), itoa(t.Rejected), itoa(t.Nulled)})
		}
		tables.Render()
		fmt.Fprintln(w)
	}
}

// printSeedSummary renders what the generator wrote.
func printSeedSummary(w io.Writer, dir string, summaries []datagen.RawSummary) {
	heading(w, "Generated raw extracts in "+dir)
	table := newTable(w, "File", "Rows", "Unique", "Duplicates", "Missing IDs", "Bad Dates")
	for _, s := range summaries {
		table.Append([]string{s.File, itoa(s.Rows), itoa(s.Unique), itoa(s.Duplicates), itoa(s.MissingIDs), itoa(s.BadDates)})
	}
	table.Render()
	fmt.Fprintln(w)
}

// printInspection renders warehouse row counts and build metadata.
func printInspection(w io.Writer, counts map[string]int64, meta map[string]string) {
	heading(w, "Warehouse tables")
	table := newTable(w, "Table", "Rows")
	for _, t := range warehouse.Tables() {
		n, ok := counts[t.Name]
		if !ok {
			continue
		}
		table.Append([]string{t.Name, itoa(n)})
	}
	table.Render()
	fmt.Fprintln(w)

	heading(w, "Build metadata")
	if len(meta) == 0 {
		fmt.Fprintln(w, "  (none recorded)")
		fmt.Fprintln(w)
		return
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mt := newTable(w, "Key", "Value")
	for _, k := range keys {
		mt.Append([]string{k, strings.TrimSpace(meta[k])})
	}
	mt.Render()
	fmt.Fprintln(w)
}
