package factory

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	costPattern     = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	durationPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\b`)
)

// ParseCost extracts the numeric amount from an announced cost such as
// "$25", "18.50" or "$1,200 total". Strings without a number, like "free",
// report ok=false.
func ParseCost(s string) (amount float64, ok bool) {
	m := costPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// maxCentsAmount bounds amounts rendered with exact cents.
const maxCentsAmount = 1e13

// FormatCost renders an amount as dollars: "$113", "$1,250", "$18.50".
// Amounts too large to carry cents are rounded to whole dollars; infinite
// or NaN amounts render empty.
func FormatCost(amount float64) string {
	if math.IsInf(amount, 0) || math.IsNaN(amount) {
		return ""
	}
	if math.Abs(amount) >= maxCentsAmount {
		return "$" + humanize.Commaf(math.Round(amount))
	}
	cents := int64(math.Round(amount * 100))
	whole, frac := cents/100, cents%100
	if frac == 0 {
		return "$" + humanize.Comma(whole)
	}
	return fmt.Sprintf("$%s.%02d", humanize.Comma(whole), frac)
}

// SumCosts adds the parseable costs. Unparseable entries contribute nothing;
// the result is empty when no entry had a parseable cost.
func SumCosts(costs []string) string {
	var total float64
	var found bool
	for _, c := range costs {
		if v, ok := ParseCost(c); ok {
			total += v
			found = true
		}
	}
	if !found {
		return ""
	}
	return FormatCost(total)
}

// ParseDuration reads durations such as "90 min", "2h", "1.5 hours" or
// "1h 30m". Strings without a recognizable unit report ok=false.
func ParseDuration(s string) (time.Duration, bool) {
	matches := durationPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		unit := time.Minute
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			unit = time.Hour
		}
		total += time.Duration(v * float64(unit))
	}
	return total, true
}

// FormatDuration renders d as "45m", "2h" or "1h 30m".
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// SumDurations adds the parseable durations, returning empty when none parse.
func SumDurations(durations []string) string {
	var total time.Duration
	var found bool
	for _, s := range durations {
		if d, ok := ParseDuration(s); ok {
			total += d
			found = true
		}
	}
	if !found {
		return ""
	}
	return FormatDuration(total)
}
