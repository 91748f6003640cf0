package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/clock"
	commercedomain "github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Sales    commercedomain.SaleService
	Currency commercedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	sales    commercedomain.SaleService
	currency commercedomain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("currencyprice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		sales:    p.Sales,
		currency: p.Currency,
	}
}

func (s *Service) PricesByPurchasableID(ctx context.Context, purchasableID int64) (domain.PriceMap, error) {
	rows, err := s.repo.ListPurchasablePrices(ctx, s.db, purchasableID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	prices := make(domain.PriceMap, len(rows))
	for _, row := range rows {
		prices[row.PaymentCurrencyISO] = row.Price
	}
	return prices, nil
}

func (s *Service) PricesByTicketID(ctx context.Context, ticketID int64) ([]domain.TicketPrice, error) {
	rows, err := s.repo.ListPurchasablePrices(ctx, s.db, ticketID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TicketPrice, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TicketPrice{
			PaymentCurrencyISO: row.PaymentCurrencyISO,
			Price:              row.Price,
		})
	}
	return out, nil
}

func (s *Service) SavePurchasablePrices(ctx context.Context, tx *gorm.DB, purchasableID, siteID int64, prices domain.PriceMap) error {
	if purchasableID <= 0 {
		return domain.ErrInvalidOwner
	}

	rows := make([]domain.PurchasablePrice, 0, len(prices))
	for iso, price := range prices {
		code, err := s.requireCurrency(ctx, tx, iso)
		if err != nil {
			return err
		}
		id, uid := s.newRowIdentity()
		rows = append(rows, domain.PurchasablePrice{
			ID:                 id,
			PurchasableID:      purchasableID,
			SiteID:             siteID,
			PaymentCurrencyISO: code,
			Price:              price,
			UID:                uid,
		})
	}

	if err := s.repo.UpsertPurchasablePrices(ctx, tx, rows); err != nil {
		return err
	}
	s.log.Debug("purchasable prices saved", zap.Int64("purchasable_id", purchasableID), zap.Int("currencies", len(rows)))
	return nil
}

func (s *Service) SalePrice(ctx context.Context, purchasable *commercedomain.Purchasable, iso string) (decimal.Decimal, error) {
	if purchasable == nil {
		return decimal.Zero, domain.ErrInvalidOwner
	}

	prices, err := s.PricesByPurchasableID(ctx, purchasable.ID)
	if err != nil {
		return decimal.Zero, err
	}
	price := prices[strings.ToUpper(iso)]

	sales, err := s.sales.ActiveSalesFor(ctx, purchasable.ID, s.clock.Now())
	if err != nil {
		return decimal.Zero, err
	}
	return ApplySales(price, sales), nil
}

// requireCurrency checks iso against the configured payment currencies using
// db, which is the caller's transaction during saves.
func (s *Service) requireCurrency(ctx context.Context, db *gorm.DB, iso string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(iso))
	cur, err := s.currency.FindPaymentCurrency(ctx, db, code)
	if err != nil {
		return "", err
	}
	if cur == nil {
		return "", domain.ErrUnknownCurrency
	}
	return cur.ISO, nil
}

func (s *Service) newRowIdentity() (snowflake.ID, string) {
	return s.genID.Generate(), uuid.NewString()
}
