package server

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/config"
	currencypricedomain "github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"github.com/smallbiznis/currencyprices/internal/render"
	"go.uber.org/zap"
)

var saveKinds = []string{
	config.SaveKindTickets,
	config.SaveKindProducts,
	config.SaveKindShippingRules,
	config.SaveKindDiscounts,
	config.SaveKindAddonDiscounts,
}

// GetTicketInputs renders the currency price inputs of a ticket field.
// Stored ticket prices are shown negated.
func (s *Server) GetTicketInputs(c *gin.Context) {
	if !acceptsJSON(c) {
		AbortWithError(c, newValidationError("accept", "json_required", "request must accept application/json"))
		return
	}

	name := strings.TrimSpace(formParam(c, "name"))
	if name == "" {
		AbortWithError(c, newValidationError("name", "required", "name is required"))
		return
	}

	var ticketID int64
	if raw := strings.TrimSpace(formParam(c, "id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
			return
		}
		ticketID = id
	}

	ctx := c.Request.Context()
	currencies, err := s.currencies.All(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var stored []currencypricedomain.TicketPrice
	if ticketID != 0 {
		stored, err = s.prices.PricesByTicketID(ctx, ticketID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
	}

	prop := strings.ReplaceAll(name, s.settings.Get().FieldSuffix, "")
	values := make([]render.FieldValue, 0, len(currencies))
	for _, currency := range currencies {
		values = append(values, render.FieldValue{
			ISO:   currency.ISO,
			Price: displayPrice(stored, currency.ISO, prop),
		})
	}

	html, err := s.renderer.RenderField(render.FieldInput{
		Name:         name,
		ID:           name,
		Label:        formParam(c, "label"),
		Instructions: formParam(c, "instructions"),
		Values:       values,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"html": html})
}

func displayPrice(stored []currencypricedomain.TicketPrice, iso, prop string) decimal.Decimal {
	for _, row := range stored {
		if row.PaymentCurrencyISO != iso {
			continue
		}
		v, ok := row.Field(prop)
		if !ok || v.IsZero() {
			return decimal.Zero
		}
		return v.Neg()
	}
	return decimal.Zero
}

// ForwardSave folds the submitted currency price inputs into the form and
// re-dispatches the request to the host save action for kind.
func (s *Server) ForwardSave(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings := s.settings.Get()
		route, ok := settings.SaveRoute(kind)
		if !ok {
			AbortWithError(c, ErrNotFound)
			return
		}
		if config.IsPluginRoute(route) {
			s.log.Error("save route points back at the forwarder", zap.String("kind", kind), zap.String("route", route))
			AbortWithError(c, ErrForwardLoop)
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		fields, err := s.collector.Collect(c.Request.PostForm, currencypricedomain.CollectOptions{
			FlipSign: kind == config.SaveKindTickets,
			Suffix:   settings.FieldSuffix,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		merged := url.Values{}
		for key, values := range c.Request.PostForm {
			merged[key] = append([]string(nil), values...)
		}
		for key, values := range fields {
			merged[key] = values
		}

		body := merged.Encode()
		c.Request.Body = io.NopCloser(strings.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c.Request.Form = nil
		c.Request.PostForm = nil
		c.Request.URL.Path = route
		c.Request.URL.RawPath = ""

		s.log.Debug("forwarding save",
			zap.String("kind", kind),
			zap.String("route", route),
			zap.Int("currency_fields", len(fields)),
		)
		s.engine.HandleContext(c)
	}
}

func acceptsJSON(c *gin.Context) bool {
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json")
}

func formParam(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}
