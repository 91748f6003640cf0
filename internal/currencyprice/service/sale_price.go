package service

import (
	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
)

// ApplySales runs sales over original in order. Percent amounts are
// fractions (0.2 is twenty percent); flat amounts are taken in the price's
// own currency. The result never drops below zero.
func ApplySales(original decimal.Decimal, sales []commercedomain.Sale) decimal.Decimal {
	price := original
	for _, sale := range sales {
		basis := price
		if sale.IgnorePrevious {
			basis = original
		}

		amount := sale.ApplyAmount
		switch sale.Apply {
		case commercedomain.SaleToPercent:
			price = basis.Mul(amount.Abs())
		case commercedomain.SaleByPercent:
			price = basis.Sub(basis.Mul(amount.Abs()))
		case commercedomain.SaleToFlat:
			price = amount.Abs()
		case commercedomain.SaleByFlat:
			price = basis.Sub(amount.Abs())
		default:
			continue
		}

		if price.IsNegative() {
			price = decimal.Zero
		}
		if sale.StopProcessing {
			break
		}
	}
	return price
}
