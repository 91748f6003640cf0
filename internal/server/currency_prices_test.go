package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/clock"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	commercerepo "github.com/smallbiznis/currencyprices/internal/commerce/repository"
	commerceservice "github.com/smallbiznis/currencyprices/internal/commerce/service"
	"github.com/smallbiznis/currencyprices/internal/config"
	currencypricedomain "github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	cprepo "github.com/smallbiznis/currencyprices/internal/currencyprice/repository"
	cpservice "github.com/smallbiznis/currencyprices/internal/currencyprice/service"
	"github.com/smallbiznis/currencyprices/internal/filters"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"github.com/smallbiznis/currencyprices/internal/migration"
	"github.com/smallbiznis/currencyprices/internal/observability"
	obsmetrics "github.com/smallbiznis/currencyprices/internal/observability/metrics"
	"github.com/smallbiznis/currencyprices/internal/render"
	"github.com/smallbiznis/currencyprices/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testServer struct {
	srv    *Server
	db     *gorm.DB
	prices *cpservice.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithSettings(t, config.DefaultSettings())
}

func newTestServerWithSettings(t *testing.T, settings config.Settings) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.EnsureHostSchema(ctx, conn))
	_, err = migration.NewInstaller(conn, zap.NewNop()).Up(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.Create(&[]commercedomain.PaymentCurrency{
		{ISO: "USD", Primary: true, SortOrder: 1},
		{ISO: "EUR", SortOrder: 2},
	}).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	formatter, err := localization.NewFormatter("en")
	require.NoError(t, err)
	renderer, err := render.New()
	require.NoError(t, err)
	httpMetrics, err := obsmetrics.NewHTTPMetricsWithRegisterer(prometheus.NewRegistry())
	require.NoError(t, err)

	hostRepo := commercerepo.Provide()
	currencies := commerceservice.NewCurrencyService(commerceservice.CurrencyParams{DB: conn, Log: zap.NewNop(), Repo: hostRepo})
	catalog := commerceservice.NewCatalogService(commerceservice.CatalogParams{DB: conn, Repo: hostRepo})
	save := commerceservice.NewSaveService(commerceservice.SaveParams{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      hostRepo,
		Formatter: formatter,
	})
	prices := cpservice.New(cpservice.Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.New(),
		Repo:     cprepo.Provide(),
		Sales:    catalog,
		Currency: hostRepo,
	})
	cpservice.RegisterHooks(cpservice.HookParams{Log: zap.NewNop(), Save: save, Service: prices})

	srv := NewServer(ServerParams{
		Gin:        NewEngine(observability.Config{}, httpMetrics),
		Log:        zap.NewNop(),
		Settings:   config.NewStaticSettingsHolder(settings),
		Currencies: currencies,
		Catalog:    catalog,
		SaveSvc:    save,
		Prices:     prices,
		Collector:  cpservice.NewCollector(formatter),
		Renderer:   renderer,
		Filters: filters.New(filters.Params{
			Currencies: currencies,
			Prices:     prices,
			Addons:     prices,
			Formatter:  formatter,
		}),
	})

	return &testServer{srv: srv, db: conn, prices: prices}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.srv.Engine().ServeHTTP(w, req)
	return w
}

func (ts *testServer) purchasable(t *testing.T, id int64, kind commercedomain.PurchasableType) {
	t.Helper()
	require.NoError(t, ts.db.Create(&commercedomain.Purchasable{ID: id, Type: kind, Title: "Entry"}).Error)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestGetTicketInputsRequiresJSON(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/actions/currency-prices/tickets/get-inputs?name=priceCP", nil)
	req.Header.Set("Accept", "text/html")
	w := ts.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "json_required", payload.Errors[0].Code)
}

func TestGetTicketInputsRequiresName(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/actions/currency-prices/tickets/get-inputs?id=4", nil)
	req.Header.Set("Accept", "application/json")
	w := ts.do(req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "name", payload.Errors[0].Field)
	assert.Equal(t, "required", payload.Errors[0].Code)
}

func TestGetTicketInputsShowsNegatedPrices(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	ts.purchasable(t, 41, commercedomain.PurchasableTicket)
	require.NoError(t, ts.prices.SavePurchasablePrices(ctx, ts.db, 41, 1, currencypricedomain.PriceMap{
		"USD": decimal.NewFromInt(10),
	}))

	form := url.Values{"name": {"priceCP"}, "id": {"41"}, "label": {"Ticket price"}}
	req := postForm("/actions/currency-prices/tickets/get-inputs", form)
	req.Header.Set("Accept", "application/json, text/javascript")
	w := ts.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		HTML string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.HTML, `name="priceCP[USD]" value="-10"`)
	assert.Contains(t, body.HTML, `name="priceCP[EUR]" value="0"`)
	assert.Contains(t, body.HTML, "Ticket price")
}

func TestGetTicketInputsWithoutID(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/actions/currency-prices/tickets/get-inputs?name=priceCP", nil)
	req.Header.Set("Accept", "application/json")
	w := ts.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `priceCP[USD]`)
	assert.Contains(t, w.Body.String(), `priceCP[EUR]`)
}

func TestForwardSaveRejectsOtherMethods(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/actions/currency-prices/tickets/save", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodDelete, "/actions/currency-prices/tickets/get-inputs", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestForwardSaveTicketPersistsStoredMagnitudes(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{
		"title":        {"Early bird"},
		"priceCP[USD]": {"-12.5"},
		"priceCP[EUR]": {"0"},
	}
	w := ts.do(postForm("/actions/currency-prices/tickets/save", form))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data commercedomain.SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, commercedomain.EntityTicket, body.Data.Kind)
	assert.True(t, body.Data.IsNew)

	prices, err := ts.prices.PricesByPurchasableID(context.Background(), body.Data.ID)
	require.NoError(t, err)
	require.Contains(t, prices, "USD")
	assert.True(t, decimal.RequireFromString("12.5").Equal(prices["USD"]), prices["USD"].String())
	assert.True(t, prices["EUR"].IsZero())
}

func TestForwardSaveProductKeepsSign(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{
		"title":        {"Widget"},
		"priceCP[USD]": {"19.99"},
	}
	w := ts.do(postForm("/actions/currency-prices/products/save", form))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data commercedomain.SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	prices, err := ts.prices.PricesByPurchasableID(context.Background(), body.Data.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("19.99").Equal(prices["USD"]))
}

func TestForwardSaveRejectsBadAmount(t *testing.T) {
	ts := newTestServer(t)

	form := url.Values{
		"title":        {"Widget"},
		"priceCP[USD]": {"twelve"},
	}
	w := ts.do(postForm("/actions/currency-prices/products/save", form))

	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_amount", payload.Errors[0].Code)

	var count int64
	require.NoError(t, ts.db.Model(&commercedomain.Purchasable{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductPricesRendersStorefront(t *testing.T) {
	ts := newTestServer(t)
	ts.purchasable(t, 7, commercedomain.PurchasableProduct)
	require.NoError(t, ts.prices.SavePurchasablePrices(context.Background(), ts.db, 7, 1, currencypricedomain.PriceMap{
		"USD": decimal.RequireFromString("12.5"),
	}))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/products/7/prices", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "USD 12.50")
	assert.Contains(t, w.Body.String(), `data-iso="EUR"`)
}

func TestProductPricesNotFound(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/products/999/prices", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForwardSaveUsesConfiguredSuffix(t *testing.T) {
	settings := config.DefaultSettings()
	settings.FieldSuffix = "Curr"
	ts := newTestServerWithSettings(t, settings)

	req := httptest.NewRequest(http.MethodGet, "/actions/currency-prices/tickets/get-inputs?name=priceCurr", nil)
	req.Header.Set("Accept", "application/json")
	w := ts.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `priceCurr[USD]`)

	form := url.Values{
		"title":          {"Late entry"},
		"priceCurr[USD]": {"-9"},
	}
	w = ts.do(postForm("/actions/currency-prices/tickets/save", form))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data commercedomain.SaveResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	prices, err := ts.prices.PricesByPurchasableID(context.Background(), body.Data.ID)
	require.NoError(t, err)
	require.Contains(t, prices, "USD")
	assert.True(t, decimal.NewFromInt(9).Equal(prices["USD"]), prices["USD"].String())
}

func TestForwardSaveRefusesRouteBackToItself(t *testing.T) {
	settings := config.DefaultSettings()
	settings.SaveRoutes = map[string]string{
		config.SaveKindTickets: "/actions/currency-prices/tickets/save",
	}
	ts := newTestServerWithSettings(t, settings)

	form := url.Values{"title": {"Loop"}, "priceCP[USD]": {"-1"}}
	w := ts.do(postForm("/actions/currency-prices/tickets/save", form))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var count int64
	require.NoError(t, ts.db.Model(&commercedomain.Purchasable{}).Count(&count).Error)
	assert.Zero(t, count)
}
