package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncNames are the template functions the storefront template calls. They
// are bound per request through RenderStorefront.
var FuncNames = []string{
	"currencyPrice",
	"currencySalePrice",
	"currencyAddonDiscountPrice",
	"currencyAddonDiscountPrices",
	"localizationNormalizeNumber",
}

type FieldValue struct {
	ISO   string
	Price decimal.Decimal
}

type FieldInput struct {
	Name         string
	ID           string
	Label        string
	Instructions string
	Values       []FieldValue
	Errors       []string
}

type StorefrontInput struct {
	Product    *commercedomain.Purchasable
	Currencies []commercedomain.PaymentCurrency
	StripZeros bool
}

type Renderer struct {
	field *template.Template
	// storefront is only cloned, never executed, so it stays cloneable.
	storefront *template.Template
}

func New() (*Renderer, error) {
	placeholders := template.FuncMap{}
	for _, name := range FuncNames {
		placeholders[name] = func(...any) (string, error) {
			return "", fmt.Errorf("template function not bound")
		}
	}

	field, err := template.New("field-set").ParseFS(templateFS, "templates/field.html")
	if err != nil {
		return nil, fmt.Errorf("parse field template: %w", err)
	}
	storefront, err := template.New("storefront-set").Funcs(placeholders).ParseFS(templateFS, "templates/storefront.html")
	if err != nil {
		return nil, fmt.Errorf("parse storefront template: %w", err)
	}
	return &Renderer{field: field, storefront: storefront}, nil
}

func (r *Renderer) RenderField(input FieldInput) (string, error) {
	if input.ID == "" {
		input.ID = input.Name
	}

	var buf bytes.Buffer
	if err := r.field.ExecuteTemplate(&buf, "field", input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderStorefront executes the storefront snippet with funcs bound to the
// current request.
func (r *Renderer) RenderStorefront(funcs template.FuncMap, input StorefrontInput) (string, error) {
	tpl, err := r.storefront.Clone()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Funcs(funcs).ExecuteTemplate(&buf, "storefront", input); err != nil {
		return "", err
	}
	return buf.String(), nil
}
