//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/LFoster03/smart-store-07/internal/logging"
	"github.com/LFoster03/smart-store-07/internal/table"
)

// First identifiers, matching the numbering of the store's extracts.
const (
	FirstCustomerID    = 1001
	FirstProductID     = 101
	FirstTransactionID = 550
)

var (
	regions    = []string{"East", "West", "North", "South", "Central"}
	regionWts  = []int{30, 25, 20, 15, 10}
	categories = []string{"Electronics", "Clothing", "Sports", "Home", "Grocery"}

	// Layouts the raw extracts mix; the preparer must accept all of them.
	dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02", "Jan 2, 2006"}
	badDates    = []string{"not a date", "2023-13-45", "31/31/2031", "unknown", "TBD"}
)

// RawOptions controls the size and dirtiness of generated extracts.
type RawOptions struct {
	Customers int
	Products  int
	Sales     int

	// DuplicateRate is the chance a row is followed by an exact copy.
	DuplicateRate float64

	// MissingRate is the chance an extra row without an id is emitted.
	MissingRate float64

	// BadDateRate is the chance a date cell holds garbage.
	BadDateRate float64

	// Seed makes output reproducible; 0 picks a random seed.
	Seed uint64

	// Now anchors generated dates; zero means time.Now().
	Now time.Time
}

// RawSummary counts what was generated per extract.
type RawSummary struct {
	File       string
	Rows       int
	Unique     int
	Duplicates int
	MissingIDs int
	BadDates   int
}

// RawGenerator produces customers_data.csv, products_data.csv and
// sales_data.csv with deliberate duplicates, missing ids and bad dates.
type RawGenerator struct {
	f    *Faker
	opts RawOptions
}

// NewRawGenerator creates a generator.
func NewRawGenerator(opts RawOptions) *RawGenerator {
	f := NewFakerWithSeed(opts.Seed)
	if opts.Seed == 0 {
		f = NewFaker()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return &RawGenerator{f: f, opts: opts}
}

// emit appends row, then maybe an exact duplicate and an id-less copy.
func (g *RawGenerator) emit(t *table.Table, s *RawSummary, row []string) {
	t.Rows = append(t.Rows, row)
	s.Unique++
	if g.f.Chance(g.opts.DuplicateRate) {
		t.Rows = append(t.Rows, append([]string(nil), row...))
		s.Duplicates++
	}
	if g.f.Chance(g.opts.MissingRate) {
		orphan := append([]string(nil), row...)
		orphan[0] = ""
		t.Rows = append(t.Rows, orphan)
		s.MissingIDs++
	}
}

func (g *RawGenerator) date(s *RawSummary, start, end time.Time) string {
	if g.f.Chance(g.opts.BadDateRate) {
		s.BadDates++
		return Choose(g.f, badDates)
	}
	return g.f.DateRange(start, end).Format(ChooseWeighted(g.f, dateLayouts, []int{70, 20, 5, 5}))
}

// Customers generates the customer extract.
func (g *RawGenerator) Customers() (*table.Table, RawSummary) {
	t := table.New("customers_data", "CustomerID", "Name", "Region", "JoinDate", "BirthDate", "Gender")
	s := RawSummary{File: "customers_data.csv"}
	now := g.opts.Now

	for i := 0; i < g.opts.Customers; i++ {
		g.emit(t, &s, []string{
			strconv.Itoa(FirstCustomerID + i),
			g.f.Name(),
			ChooseWeighted(g.f, regions, regionWts),
			g.date(&s, now.AddDate(-5, 0, 0), now),
			g.date(&s, now.AddDate(-85, 0, 0), now.AddDate(-10, 0, 0)),
			g.f.Gender(),
		})
	}
	s.Rows = t.Len()
	return t, s
}

// Products generates the product extract.
func (g *RawGenerator) Products() (*table.Table, RawSummary) {
	t := table.New("products_data", "ProductID", "ProductName", "Category", "UnitPrice")
	s := RawSummary{File: "products_data.csv"}

	for i := 0; i < g.opts.Products; i++ {
		g.emit(t, &s, []string{
			strconv.Itoa(FirstProductID + i),
			g.f.ProductName(),
			Choose(g.f, categories),
			strconv.FormatFloat(g.f.Price(1, 1500), 'f', 2, 64),
		})
	}
	s.Rows = t.Len()
	return t, s
}

// Sales generates the sales extract. Customer and product references
// point at ids the other extracts generate.
func (g *RawGenerator) Sales() (*table.Table, RawSummary) {
	t := table.New("sales_data", "TransactionID", "SaleDate", "CustomerID", "ProductID", "StoreID", "CampaignID", "SaleAmount")
	s := RawSummary{File: "sales_data.csv"}
	now := g.opts.Now

	for i := 0; i < g.opts.Sales; i++ {
		qty := g.f.Int(1, 5)
		g.emit(t, &s, []string{
			strconv.Itoa(FirstTransactionID + i),
			g.date(&s, now.AddDate(-2, 0, 0), now),
			strconv.Itoa(FirstCustomerID + g.f.Int(0, max(g.opts.Customers-1, 0))),
			strconv.Itoa(FirstProductID + g.f.Int(0, max(g.opts.Products-1, 0))),
			strconv.Itoa(401 + g.f.Int(0, 5)),
			strconv.Itoa(g.f.Int(0, 4)),
			strconv.FormatFloat(float64(qty)*g.f.Price(1, 500), 'f', 2, 64),
		})
	}
	s.Rows = t.Len()
	return t, s
}

// WriteAll generates every extract into dir.
func (g *RawGenerator) WriteAll(dir string) ([]RawSummary, error) {
	var summaries []RawSummary
	for _, gen := range []func() (*table.Table, RawSummary){g.Customers, g.Products, g.Sales} {
		t, s := gen()
		path := filepath.Join(dir, s.File)
		if err := t.WriteCSV(path); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", s.File, err)
		}
		logging.Info().
			Str("file", path).
			Int("rows", s.Rows).
			Int("duplicates", s.Duplicates).
			Int("missing_ids", s.MissingIDs).
			Int("bad_dates", s.BadDates).
			Msg("Generated raw extract")
		summaries = append(summaries, s)
	}
	return summaries, nil
}
