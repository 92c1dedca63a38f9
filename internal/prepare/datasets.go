//-------------------------------------------------------------------------
//
// Smart Store Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package prepare

import (
	"strconv"
	"time"

	"github.com/LFoster03/smart-store-07/internal/table"
)

// Dataset describes how one raw input is cleaned.
type Dataset struct {
	// Name identifies the dataset in logs and reports.
	Name string

	// RawFile and PreparedFile are file names inside the raw and
	// prepared directories.
	RawFile      string
	PreparedFile string

	// Key is the primary identifier column.
	Key string

	// Required columns must be present for a row to be kept.
	Required []string

	// DateColumns are parsed and rewritten in canonical form.
	DateColumns []string

	// derive appends computed columns after date parsing.
	derive func(t *table.Table, dates map[string]*parsedColumn, ref time.Time) error
}

// Customers cleans customers_data.csv.
var Customers = Dataset{
	Name:         "customers",
	RawFile:      "customers_data.csv",
	PreparedFile: "cleaned_customers.csv",
	Key:          "customerid",
	Required:     []string{"customerid"},
	DateColumns:  []string{"birthdate", "joindate"},
	derive:       deriveCustomerFields,
}

// Products cleans products_data.csv.
var Products = Dataset{
	Name:         "products",
	RawFile:      "products_data.csv",
	PreparedFile: "cleaned_products.csv",
	Key:          "productid",
	Required:     []string{"productid"},
}

// Sales cleans sales_data.csv.
var Sales = Dataset{
	Name:         "sales",
	RawFile:      "sales_data.csv",
	PreparedFile: "cleaned_sales.csv",
	Key:          "transactionid",
	Required:     []string{"transactionid", "saledate"},
	DateColumns:  []string{"saledate"},
	derive:       deriveSaleFields,
}

// Datasets returns the inputs in processing order.
func Datasets() []Dataset {
	return []Dataset{Customers, Products, Sales}
}

func deriveCustomerFields(t *table.Table, dates map[string]*parsedColumn, ref time.Time) error {
	ages := make([]string, t.Len())
	groups := make([]string, t.Len())
	birth := dates["birthdate"]
	for i := range ages {
		if birth == nil || !birth.Valid[i] {
			groups[i] = UnknownAgeGroup
			continue
		}
		age := Age(birth.Times[i], ref)
		ages[i] = strconv.Itoa(age)
		groups[i] = AgeGroup(age)
	}
	if err := t.SetColumn("age", ages); err != nil {
		return err
	}
	return t.SetColumn("age_group", groups)
}

func deriveSaleFields(t *table.Table, dates map[string]*parsedColumn, _ time.Time) error {
	n := t.Len()
	years := make([]string, n)
	months := make([]string, n)
	names := make([]string, n)
	quarters := make([]string, n)
	sale := dates["saledate"]
	for i := 0; i < n; i++ {
		var f SaleFields
		if sale != nil {
			f = DeriveSaleFields(sale.Times[i], sale.Valid[i])
		}
		years[i], months[i], names[i], quarters[i] = f.Year, f.Month, f.MonthName, f.Quarter
	}
	for _, c := range []struct {
		name   string
		values []string
	}{
		{"sale_year", years},
		{"sale_month", months},
		{"sale_month_name", names},
		{"sale_quarter", quarters},
	} {
		if err := t.SetColumn(c.name, c.values); err != nil {
			return err
		}
	}
	return nil
}
