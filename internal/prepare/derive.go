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
	"fmt"
	"strconv"
	"time"
)

// UnknownAgeGroup is the label for missing or out-of-range ages.
const UnknownAgeGroup = "Unknown"

// ageBucket is an inclusive age range and its label.
type ageBucket struct {
	Min, Max int
	Label    string
}

var ageBuckets = []ageBucket{
	{0, 17, "Under 18"},
	{18, 25, "18-25"},
	{26, 35, "26-35"},
	{36, 45, "36-45"},
	{46, 60, "46-60"},
	{61, 120, "60+"},
}

// Age returns the age in whole years at ref of someone born on birth,
// one less than the year difference when the birthday has not yet come
// round in ref's year.
func Age(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeGroup maps an age onto its bucket label.
func AgeGroup(age int) string {
	for _, b := range ageBuckets {
		if age >= b.Min && age <= b.Max {
			return b.Label
		}
	}
	return UnknownAgeGroup
}

// AgeGroupLabels lists the bucket labels in ascending order, followed by
// the unknown label.
func AgeGroupLabels() []string {
	labels := make([]string, 0, len(ageBuckets)+1)
	for _, b := range ageBuckets {
		labels = append(labels, b.Label)
	}
	return append(labels, UnknownAgeGroup)
}

// Quarter returns the calendar quarter label of t, e.g. "2023Q4".
func Quarter(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%dQ%d", t.Year(), q)
}

// SaleFields are the calendar attributes derived from a sale date.
type SaleFields struct {
	Year      string
	Month     string
	MonthName string
	Quarter   string
}

// DeriveSaleFields returns the calendar fields for a sale date, or empty
// fields when the date is null.
func DeriveSaleFields(t time.Time, valid bool) SaleFields {
	if !valid {
		return SaleFields{}
	}
	return SaleFields{
		Year:      strconv.Itoa(t.Year()),
		Month:     strconv.Itoa(int(t.Month())),
		MonthName: t.Month().String(),
		Quarter:   Quarter(t),
	}
}
