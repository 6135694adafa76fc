// Package sales aggregates storefront order lines into the report
// widgets the panel shows. Everything here is pure and stateless; rows
// come from the repository, already scoped to a store when needed.
package sales

import (
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/tierraquerida/tq-admin/internal/model"
)

type Totals struct {
	Qty     int64   `json:"qty"`
	Revenue float64 `json:"revenue"`
}

type ProductTotal struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int64   `json:"qty"`
	Revenue   float64 `json:"revenue"`
}

type Report struct {
	Totals Totals         `json:"totals"`
	Items  []ProductTotal `json:"items"`
}

// Aggregate accumulates lines into per-product totals in a single pass.
// The breakdown sorts by revenue descending, quantity descending on
// ties, then product id so equal inputs always produce equal output.
func Aggregate(lines []model.SaleItem) Report {
	byProduct := make(map[int64]*ProductTotal)
	var totals Totals

	for _, line := range lines {
		totals.Qty += line.Qty
		totals.Revenue += line.LineTotal

		pt, ok := byProduct[line.MenuID]
		if !ok {
			name := line.NameSnapshot
			if name == "" {
				name = "Producto " + strconv.FormatInt(line.MenuID, 10)
			}
			pt = &ProductTotal{ProductID: line.MenuID, Name: name}
			byProduct[line.MenuID] = pt
		}
		pt.Qty += line.Qty
		pt.Revenue += line.LineTotal
		if pt.Name == "" && line.NameSnapshot != "" {
			pt.Name = line.NameSnapshot
		}
	}

	items := make([]ProductTotal, 0, len(byProduct))
	for _, pt := range byProduct {
		items = append(items, *pt)
	}
	slices.SortStableFunc(items, func(a, b ProductTotal) int {
		switch {
		case a.Revenue != b.Revenue:
			if a.Revenue > b.Revenue {
				return -1
			}
			return 1
		case a.Qty != b.Qty:
			if a.Qty > b.Qty {
				return -1
			}
			return 1
		case a.ProductID < b.ProductID:
			return -1
		case a.ProductID > b.ProductID:
			return 1
		default:
			return 0
		}
	})

	return Report{Totals: totals, Items: items}
}

var dateOnlyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseDateOnly returns the midnight that starts the given YYYY-MM-DD
// day. Malformed or empty input yields the zero time, which Window
// treats as unbounded, matching the panel's lenient query handling.
func ParseDateOnly(s string, loc *time.Location) time.Time {
	if !dateOnlyRe.MatchString(s) {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Window converts a date-only range into the closed-open interval
// [from's midnight, midnight after to). A same-day from == to query
// covers that entire calendar day.
func Window(from, to string, loc *time.Location) (start, end time.Time) {
	start = ParseDateOnly(from, loc)
	if toStart := ParseDateOnly(to, loc); !toStart.IsZero() {
		end = toStart.AddDate(0, 0, 1)
	}
	return start, end
}

// InWindow reports whether ts falls in [start, end). A zero bound is
// open on that side.
func InWindow(ts, start, end time.Time) bool {
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && !ts.Before(end) {
		return false
	}
	return true
}

// FilterWindow keeps the lines inside [start, end).
func FilterWindow(lines []model.SaleItem, start, end time.Time) []model.SaleItem {
	out := make([]model.SaleItem, 0, len(lines))
	for _, line := range lines {
		if InWindow(line.CreatedAt, start, end) {
			out = append(out, line)
		}
	}
	return out
}
