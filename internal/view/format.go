package view

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

const notAvailable = "N/A"

// FormatPrice renders a price in US dollars with thousands separators,
// keeping cents only when there are any.
func FormatPrice(price *float64) string {
	if price == nil {
		return notAvailable
	}
	p := *price
	if p == math.Trunc(p) {
		return "$" + humanize.Comma(int64(p))
	}
	return "$" + humanize.FormatFloat("#,###.##", p)
}

func FormatMiles(miles *int) string {
	if miles == nil {
		return notAvailable
	}
	return humanize.Comma(int64(*miles))
}

func FormatYear(year *int) string {
	if year == nil {
		return notAvailable
	}
	return strconv.Itoa(*year)
}

// FormValue is the inverse of the form sanitizers: nil becomes blank.
func FormValue[T int | float64](v *T) string {
	if v == nil {
		return ""
	}
	switch n := any(*v).(type) {
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
