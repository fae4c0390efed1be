// Package locale provides chart labels and number formatting for the
// supported display languages.
package locale

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/cvpchart/pkg/errors"
)

// Locale identifies a display language.
type Locale string

// Supported locales.
const (
	English  Locale = "en"
	Japanese Locale = "ja"
)

// Default is used when no locale is given.
const Default = English

// Supported lists every locale in display order.
var Supported = []Locale{English, Japanese}

// Labels are the human-readable names of chart elements and metrics.
type Labels struct {
	Sales              string
	VariableCosts      string
	ContributionMargin string
	FixedCosts         string
	OperatingProfit    string
	OperatingLoss      string
	BreakEvenPoint     string
	BreakEvenRatio     string
	SafetyMargin       string
	SafetyMarginRatio  string
	MarginRatio        string
	OperatingLeverage  string
	NotApplicable      string
}

var labels = map[Locale]Labels{
	English: {
		Sales:              "Sales",
		VariableCosts:      "Variable Costs",
		ContributionMargin: "Contribution Margin",
		FixedCosts:         "Fixed Costs",
		OperatingProfit:    "Operating Profit",
		OperatingLoss:      "Operating Loss",
		BreakEvenPoint:     "Break-even point",
		BreakEvenRatio:     "Break-even ratio",
		SafetyMargin:       "Safety margin",
		SafetyMarginRatio:  "Safety margin ratio",
		MarginRatio:        "Contribution margin ratio",
		OperatingLeverage:  "Operating leverage",
		NotApplicable:      "n/a",
	},
	Japanese: {
		Sales:              "売上高",
		VariableCosts:      "変動費",
		ContributionMargin: "限界利益",
		FixedCosts:         "固定費",
		OperatingProfit:    "営業利益",
		OperatingLoss:      "営業損失",
		BreakEvenPoint:     "損益分岐点",
		BreakEvenRatio:     "損益分岐点比率",
		SafetyMargin:       "安全余裕額",
		SafetyMarginRatio:  "安全余裕率",
		MarginRatio:        "限界利益率",
		OperatingLeverage:  "経営レバレッジ係数",
		NotApplicable:      "該当なし",
	},
}

var currency = map[Locale]string{
	English:  "$",
	Japanese: "¥",
}

var tags = map[Locale]language.Tag{
	English:  language.English,
	Japanese: language.Japanese,
}

// Parse accepts a BCP 47 tag such as "en", "en-US" or "ja-JP" and maps it
// to a supported locale by its base language. The empty string is [Default].
func Parse(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidLocale, err, "invalid locale %q", s)
	}
	base, _ := tag.Base()
	l := Locale(base.String())
	if _, ok := labels[l]; !ok {
		return "", errors.New(errors.ErrCodeInvalidLocale, "unsupported locale %q (valid: en, ja)", s)
	}
	return l, nil
}

// LabelsFor returns the labels for l, falling back to [Default].
func LabelsFor(l Locale) Labels {
	if lb, ok := labels[l]; ok {
		return lb
	}
	return labels[Default]
}

// FormatValue formats a currency amount rounded to whole units with
// locale-specific digit grouping, e.g. "$1,234,567" or "-¥500".
func FormatValue(l Locale, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LabelsFor(l).NotApplicable
	}
	p := printer(l)
	symbol := currency[l]
	if symbol == "" {
		symbol = currency[Default]
	}
	// Rounded in float64: amounts past the int64 range are still valid input.
	rounded := math.Round(v)
	if rounded < 0 {
		return "-" + symbol + p.Sprintf("%.0f", -rounded)
	}
	return symbol + p.Sprintf("%.0f", math.Abs(rounded))
}

// FormatNumber formats v with grouping and the given number of decimals,
// without a currency symbol.
func FormatNumber(l Locale, v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LabelsFor(l).NotApplicable
	}
	return printer(l).Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatRatio formats a fraction as a percentage with one decimal,
// e.g. 0.382 becomes "38.2%".
func FormatRatio(l Locale, r float64) string {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return LabelsFor(l).NotApplicable
	}
	return printer(l).Sprintf("%.1f%%", r*100)
}

func printer(l Locale) *message.Printer {
	tag, ok := tags[l]
	if !ok {
		tag = tags[Default]
	}
	return message.NewPrinter(tag)
}
