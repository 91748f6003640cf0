package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
)

var (
	formValuePattern    = regexp.MustCompile(`^currencyPrices\[([A-Za-z]{3})\]\[(\w+)\]$`)
	formCategoryPattern = regexp.MustCompile(`^currencyPrices\[([A-Za-z]{3})\]\[categories\]\[(\d+)\]\[(\w+)\]$`)
)

// FormPrices is the decoded "currencyPrices" part of a host save form.
type FormPrices struct {
	// Values maps ISO to property to amount.
	Values map[string]map[string]decimal.Decimal
	// Categories maps ISO to shipping category to property to amount.
	Categories map[string]map[int64]map[string]decimal.Decimal
}

func (f FormPrices) Empty() bool {
	return len(f.Values) == 0 && len(f.Categories) == 0
}

func DecodeForm(form url.Values) (FormPrices, error) {
	out := FormPrices{
		Values:     map[string]map[string]decimal.Decimal{},
		Categories: map[string]map[int64]map[string]decimal.Decimal{},
	}

	for key := range form {
		if !strings.HasPrefix(key, "currencyPrices[") {
			continue
		}

		if m := formCategoryPattern.FindStringSubmatch(key); m != nil {
			amount, err := parseFormAmount(form.Get(key), key)
			if err != nil {
				return FormPrices{}, err
			}
			iso := strings.ToUpper(m[1])
			categoryID, err := strconv.ParseInt(m[2], 10, 64)
			if err != nil {
				return FormPrices{}, fmt.Errorf("%w: %s", domain.ErrInvalidField, key)
			}
			if out.Categories[iso] == nil {
				out.Categories[iso] = map[int64]map[string]decimal.Decimal{}
			}
			if out.Categories[iso][categoryID] == nil {
				out.Categories[iso][categoryID] = map[string]decimal.Decimal{}
			}
			out.Categories[iso][categoryID][m[3]] = amount
			continue
		}

		if m := formValuePattern.FindStringSubmatch(key); m != nil {
			amount, err := parseFormAmount(form.Get(key), key)
			if err != nil {
				return FormPrices{}, err
			}
			iso := strings.ToUpper(m[1])
			if out.Values[iso] == nil {
				out.Values[iso] = map[string]decimal.Decimal{}
			}
			out.Values[iso][m[2]] = amount
			continue
		}

		return FormPrices{}, fmt.Errorf("%w: %s", domain.ErrInvalidField, key)
	}
	return out, nil
}

func parseFormAmount(raw, key string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, key)
	}
	return d, nil
}
