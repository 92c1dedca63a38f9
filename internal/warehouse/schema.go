//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"fmt"
	"strings"
)

// ColumnType is a portable column type.
type ColumnType int

// Column types used by the star schema.
const (
	Integer ColumnType = iota
	Real
	Text
	// Key is short text usable as a primary key on every backend.
	Key
)

func (t ColumnType) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	case Key:
		return "KEY"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// ForeignKey names the referenced table and column.
type ForeignKey struct {
	Table  string
	Column string
}

// Column describes one warehouse column.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
	References *ForeignKey
}

// Table describes one warehouse table.
type Table struct {
	Name    string
	Columns []Column

	// Source is the prepared CSV the table is loaded from, if any.
	Source string
}

// Index is a secondary, non-unique index.
type Index struct {
	Name   string
	Table  string
	Column string
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the position of the primary key column, or -1.
func (t *Table) PrimaryKey() int {
	for i, c := range t.Columns {
		if c.PrimaryKey {
			return i
		}
	}
	return -1
}

// DimCustomers is the customer dimension.
var DimCustomers = &Table{
	Name:   "dim_customers",
	Source: "cleaned_customers.csv",
	Columns: []Column{
		{Name: "customerid", Type: Integer, PrimaryKey: true},
		{Name: "name", Type: Text},
		{Name: "region", Type: Text},
		{Name: "joindate", Type: Text},
		{Name: "birthdate", Type: Text},
		{Name: "gender", Type: Text},
		{Name: "age", Type: Integer},
		{Name: "age_group", Type: Text},
	},
}

// DimProducts is the product dimension.
var DimProducts = &Table{
	Name:   "dim_products",
	Source: "cleaned_products.csv",
	Columns: []Column{
		{Name: "productid", Type: Integer, PrimaryKey: true},
		{Name: "productname", Type: Text},
		{Name: "category", Type: Text},
		{Name: "unitprice", Type: Real},
	},
}

// FactSales is the sales fact table.
var FactSales = &Table{
	Name:   "fact_sales",
	Source: "cleaned_sales.csv",
	Columns: []Column{
		{Name: "transactionid", Type: Integer, PrimaryKey: true},
		{Name: "saledate", Type: Text},
		{Name: "customerid", Type: Integer, References: &ForeignKey{Table: "dim_customers", Column: "customerid"}},
		{Name: "productid", Type: Integer, References: &ForeignKey{Table: "dim_products", Column: "productid"}},
		{Name: "storeid", Type: Integer},
		{Name: "campaignid", Type: Integer},
		{Name: "saleamount", Type: Real},
		{Name: "sale_year", Type: Integer},
		{Name: "sale_month", Type: Integer},
		{Name: "sale_month_name", Type: Text},
		{Name: "sale_quarter", Type: Text},
	},
}

// Metadata holds key/value facts about the last build.
var Metadata = &Table{
	Name: "warehouse_metadata",
	Columns: []Column{
		{Name: "meta_key", Type: Key, PrimaryKey: true},
		{Name: "meta_value", Type: Text},
	},
}

// FactIndexes are created on the fact table's foreign key columns.
var FactIndexes = []Index{
	{Name: "idx_customer_id", Table: "fact_sales", Column: "customerid"},
	{Name: "idx_product_id", Table: "fact_sales", Column: "productid"},
}

// Dimensions returns the dimension tables in load order.
func Dimensions() []*Table {
	return []*Table{DimCustomers, DimProducts}
}

// Tables returns every warehouse table in creation order. Referenced
// tables come before the tables that reference them.
func Tables() []*Table {
	return []*Table{DimCustomers, DimProducts, FactSales, Metadata}
}

// Dialect captures the SQL differences between backends.
type Dialect struct {
	Name string

	// Types maps portable column types to native ones.
	Types map[ColumnType]string

	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string

	// DropSuffix is appended to DROP TABLE statements.
	DropSuffix string

	// MaxParams is the bind parameter limit of one statement.
	MaxParams int
}

// RowsPerStatement caps batchSize so one multi-row INSERT into t stays
// within MaxParams.
func (d *Dialect) RowsPerStatement(t *Table, batchSize int) int {
	if batchSize < 1 {
		batchSize = 1
	}
	if d.MaxParams > 0 && len(t.Columns) > 0 {
		batchSize = min(batchSize, max(d.MaxParams/len(t.Columns), 1))
	}
	return batchSize
}

func questionMark(int) string { return "?" }

// SQLite renders DDL for SQLite.
var SQLite = &Dialect{
	Name: "sqlite",
	Types: map[ColumnType]string{
		Integer: "INTEGER",
		Real:    "REAL",
		Text:    "TEXT",
		Key:     "TEXT",
	},
	Placeholder: questionMark,
	MaxParams:   32766,
}

// Postgres renders DDL for PostgreSQL.
var Postgres = &Dialect{
	Name: "postgres",
	Types: map[ColumnType]string{
		Integer: "BIGINT",
		Real:    "DOUBLE PRECISION",
		Text:    "TEXT",
		Key:     "VARCHAR(255)",
	},
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	DropSuffix:  " CASCADE",
	MaxParams:   65535,
}

// MySQL renders DDL for MySQL / MariaDB.
var MySQL = &Dialect{
	Name: "mysql",
	Types: map[ColumnType]string{
		Integer: "BIGINT",
		Real:    "DOUBLE",
		Text:    "TEXT",
		Key:     "VARCHAR(255)",
	},
	Placeholder: questionMark,
	MaxParams:   65535,
}

// CreateTableSQL renders CREATE TABLE for t.
func (d *Dialect) CreateTableSQL(t *Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.Name)

	lines := make([]string, 0, len(t.Columns)+2)
	for _, c := range t.Columns {
		line := fmt.Sprintf("    %s %s", c.Name, d.Types[c.Type])
		if c.PrimaryKey {
			line += " PRIMARY KEY"
		}
		lines = append(lines, line)
	}
	for _, c := range t.Columns {
		if c.References == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("    FOREIGN KEY (%s) REFERENCES %s (%s)",
			c.Name, c.References.Table, c.References.Column))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

// DropTableSQL renders DROP TABLE IF EXISTS for t.
func (d *Dialect) DropTableSQL(t *Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s%s", t.Name, d.DropSuffix)
}

// CreateIndexSQL renders CREATE INDEX for idx. Tables are always freshly
// created, so the index never pre-exists.
func (d *Dialect) CreateIndexSQL(idx Index) string {
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.Name, idx.Table, idx.Column)
}

// InsertSQL renders a multi-row INSERT for n rows of t.
func (d *Dialect) InsertSQL(t *Table, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", t.Name, strings.Join(t.ColumnNames(), ", "))
	arg := 1
	for r := 0; r < n; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range t.Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Placeholder(arg))
			arg++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// CountSQL renders a row count query for t.
func (d *Dialect) CountSQL(t *Table) string {
	return "SELECT COUNT(*) FROM " + t.Name
}
