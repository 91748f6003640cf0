package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/render"
)

// HostSave is the native save action of kind. Forwarded requests land here
// with the canonical currencyPrices fields already merged into the form.
func (s *Server) HostSave(kind commercedomain.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		result, err := s.saveSvc.Save(c.Request.Context(), kind, c.Request.PostForm)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": result})
	}
}

// ProductPrices renders the storefront price snippet of a purchasable in
// every payment currency.
func (s *Server) ProductPrices(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	ctx := c.Request.Context()
	product, err := s.catalog.Get(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	currencies, err := s.currencies.All(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	stripZeros, _ := strconv.ParseBool(c.DefaultQuery("stripZeros", "false"))
	html, err := s.renderer.RenderStorefront(s.filters.Funcs(ctx), render.StorefrontInput{
		Product:    product,
		Currencies: currencies,
		StripZeros: stripZeros,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
