package panel

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for values the dataset does not carry.
const Placeholder = "—"

// Formatter renders numbers with locale-aware digit grouping.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter builds a formatter for a BCP 47 tag such as "tr-TR".
// Unparseable tags fall back to English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Number formats v with grouping and at most three fraction digits.
func (f *Formatter) Number(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return f.printer.Sprint(number.Decimal(*v, number.MaxFractionDigits(3)))
}

// Money formats a GDP figure; zero and missing both show the placeholder.
func (f *Formatter) Money(v *float64) string {
	if v == nil || *v == 0 {
		return Placeholder
	}
	return f.Number(v) + " $"
}

// Score prints a water score without trailing zeros.
func Score(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
