// internal/money/format.go
package money

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"bayup-finance/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultLocale = "es-CO"

// InputFormatError means the text held no usable non-negative integer.
// Callers treat the value as 0 and flag Field.
type InputFormatError struct {
	Field string
	Input string
	Err   error
}

func (e *InputFormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: cannot parse %q as amount", e.Field, e.Input)
	}
	return fmt.Sprintf("cannot parse %q as amount", e.Input)
}

func (e *InputFormatError) Unwrap() error { return e.Err }

type Options struct {
	Locale       string
	ThousandsSep string // overrides the locale grouping separator
	DecimalSep   string // overrides the locale decimal separator
}

// Formatter converts between raw amounts and their display text.
// It holds no mutable state after construction.
type Formatter struct {
	locale       language.Tag
	thousandsSep string
	decimalSep   string
}

func New(opts Options) (*Formatter, error) {
	loc := opts.Locale
	if loc == "" {
		loc = DefaultLocale
	}
	tag, err := language.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", loc, err)
	}

	group, dec := localeSeparators(tag)
	if opts.ThousandsSep != "" {
		group = opts.ThousandsSep
	}
	if opts.DecimalSep != "" {
		dec = opts.DecimalSep
	}
	if strings.ContainsFunc(group, unicode.IsDigit) {
		return nil, fmt.Errorf("thousands separator %q must not contain digits", group)
	}

	return &Formatter{locale: tag, thousandsSep: group, decimalSep: dec}, nil
}

// MustNew is New for package-level defaults and tests.
func MustNew(opts Options) *Formatter {
	f, err := New(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// localeSeparators asks CLDR (via x/text) how the locale prints a grouped
// integer and a decimal, and picks the separators out of the result.
func localeSeparators(tag language.Tag) (group, dec string) {
	p := message.NewPrinter(tag)
	group = firstNonDigit(p.Sprintf("%d", 1234567))
	dec = firstNonDigit(p.Sprintf("%.1f", 1.5))
	if group == "" {
		group = ","
	}
	if dec == "" || dec == group {
		dec = "."
	}
	return group, dec
}

func firstNonDigit(s string) string {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return string(r)
		}
	}
	return ""
}

func (f *Formatter) Locale() string { return f.locale.String() }

func (f *Formatter) ThousandsSeparator() string { return f.thousandsSep }

// Display groups digits with the thousands separator, no decimals.
func (f *Formatter) Display(n domain.MoneyAmount) string {
	if n < 0 {
		// -(n+1)+1 keeps math.MinInt64 in range
		return "-" + f.group(uint64(-(n+1))+1)
	}
	return f.group(uint64(n))
}

// DisplayRaw formats text typed into an amount field. Empty stays empty.
func (f *Formatter) DisplayRaw(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return f.Display(f.ParseInput(raw))
}

// Currency renders an amount the way the dashboard does: "$ 1.234.567".
func (f *Formatter) Currency(n domain.MoneyAmount) string {
	if n < 0 {
		return "-$ " + strings.TrimPrefix(f.Display(n), "-")
	}
	return "$ " + f.Display(n)
}

// CurrencyDecimal rounds d to whole units and renders it as Currency.
// This is the only place fee values get rounded.
func (f *Formatter) CurrencyDecimal(d decimal.Decimal) string {
	return f.Currency(d.Round(0).IntPart())
}

// Percent renders d with one decimal place.
func (f *Formatter) Percent(d decimal.Decimal) string {
	s := d.StringFixed(1)
	if f.decimalSep != "." {
		s = strings.Replace(s, ".", f.decimalSep, 1)
	}
	return s + "%"
}

func (f *Formatter) group(u uint64) string {
	digits := strconv.FormatUint(u, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(f.thousandsSep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Parse strips every non-digit and reads the rest as an amount.
func (f *Formatter) Parse(display string) (domain.MoneyAmount, error) {
	return Parse(display)
}

// ParseInput is Parse with the error folded into 0.
func (f *Formatter) ParseInput(display string) domain.MoneyAmount {
	n, _ := Parse(display)
	return n
}

// Parse strips every non-digit and reads the rest as an amount.
// Text with no digits, or too many, is an *InputFormatError and yields 0.
func Parse(display string) (domain.MoneyAmount, error) {
	var b strings.Builder
	for _, r := range display {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, &InputFormatError{Input: display}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, &InputFormatError{Input: display, Err: err}
	}
	return n, nil
}

// ParseField is Parse that records which field failed.
func ParseField(field, display string) (domain.MoneyAmount, error) {
	n, err := Parse(display)
	if err != nil {
		if ife, ok := err.(*InputFormatError); ok {
			ife.Field = field
		}
		return 0, err
	}
	return n, nil
}
