package localization

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/config"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	ErrUnknownCurrency = errors.New("unknown_currency")
	ErrInvalidNumber   = errors.New("invalid_number")
)

// Formatter renders amounts and normalizes user-entered numbers for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	group   string
	decimal string
}

func New(cfg config.Config) (*Formatter, error) {
	return NewFormatter(cfg.Locale)
}

func NewFormatter(locale string) (*Formatter, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = "en"
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	p := message.NewPrinter(tag)
	return &Formatter{
		tag:     tag,
		printer: p,
		group:   nonDigits(p.Sprintf("%v", number.Decimal(1234567))),
		decimal: nonDigits(p.Sprintf("%v", number.Decimal(0.5, number.Scale(1)))),
	}, nil
}

func (f *Formatter) Locale() string {
	return f.tag.String()
}

// AsCurrency formats amount as "<ISO> <number>" using the currency's
// standard scale. With stripZeros, integral amounts drop their fraction.
func (f *Formatter) AsCurrency(amount decimal.Decimal, iso string, stripZeros bool) (string, error) {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(iso)))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCurrency, iso)
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))
	if stripZeros && rounded.Equal(rounded.Truncate(0)) {
		scale = 0
	}

	// x/text takes no decimal strings; stored amounts are decimal(14,4), well inside float64 precision.
	value := f.printer.Sprintf("%v", number.Decimal(rounded.InexactFloat64(), number.Scale(scale)))
	return unit.String() + " " + value, nil
}

// NormalizeNumber rewrites a localized numeric string into the invariant
// form ("1.234,5" becomes "1234.5" for de). Non-string values are
// returned unchanged.
func (f *Formatter) NormalizeNumber(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}

	s = strings.TrimSpace(s)
	if f.group != "" {
		s = strings.ReplaceAll(s, f.group, "")
		if isSpace(f.group) {
			s = strings.ReplaceAll(s, " ", "")
		}
	}
	if f.decimal != "" && f.decimal != "." {
		s = strings.ReplaceAll(s, f.decimal, ".")
	}
	return s
}

// ParseDecimal normalizes raw and parses it. An empty string reads as zero.
func (f *Formatter) ParseDecimal(raw string) (decimal.Decimal, error) {
	normalized, _ := f.NormalizeNumber(raw).(string)
	if normalized == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return d, nil
}

func nonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	// grouping repeats the separator; keep one occurrence
	if n := len([]rune(out)); n > 1 {
		runes := []rune(out)
		if strings.Count(out, string(runes[0])) == n {
			return string(runes[0])
		}
	}
	return out
}

func isSpace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) && r != '\u00a0' && r != '\u202f' {
			return false
		}
	}
	return s != ""
}
