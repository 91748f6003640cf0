package service

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/localization"
)

// DefaultSuffix marks rendered inputs when no suffix is configured.
const DefaultSuffix = "CP"

// inputKeyPattern matches rendered inputs such as "priceCP[USD]" and
// "perItemRateCP[EUR][12]" (shipping category 12) for suffix.
func inputKeyPattern(suffix string) *regexp.Regexp {
	return regexp.MustCompile(`^(\w+?)` + regexp.QuoteMeta(suffix) + `\[([A-Za-z]{3})\](?:\[(\d+)\])?$`)
}

type PriceCollector struct {
	formatter *localization.Formatter
	validate  *validator.Validate

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

func NewCollector(formatter *localization.Formatter) *PriceCollector {
	return &PriceCollector{
		formatter: formatter,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		patterns:  map[string]*regexp.Regexp{DefaultSuffix: inputKeyPattern(DefaultSuffix)},
	}
}

func (c *PriceCollector) Collect(form url.Values, opts domain.CollectOptions) (url.Values, error) {
	out := url.Values{}
	pattern := c.pattern(opts.Suffix)

	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		m := pattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		prop, iso, category := m[1], strings.ToUpper(m[2]), m[3]

		if err := c.validate.Var(iso, "required,iso4217"); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidCurrency, iso)
		}

		amount, err := c.formatter.ParseDecimal(form.Get(key))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, key)
		}
		if opts.FlipSign && !amount.IsZero() {
			amount = amount.Neg()
		}

		out.Set(canonicalKey(iso, prop, category), amount.StringFixed(4))
	}
	return out, nil
}

func (c *PriceCollector) pattern(suffix string) *regexp.Regexp {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.patterns[suffix]
	if !ok {
		p = inputKeyPattern(suffix)
		c.patterns[suffix] = p
	}
	return p
}

func canonicalKey(iso, prop, category string) string {
	if category != "" {
		return fmt.Sprintf("currencyPrices[%s][categories][%s][%s]", iso, category, prop)
	}
	return fmt.Sprintf("currencyPrices[%s][%s]", iso, prop)
}
