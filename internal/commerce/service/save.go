package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/currencyprices/internal/commerce/domain"
	"github.com/smallbiznis/currencyprices/internal/localization"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSiteID int64 = 1

type SaveParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Formatter *localization.Formatter
}

// SaveService is the host's native entity save pipeline.
type SaveService struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	formatter *localization.Formatter

	mu    sync.RWMutex
	hooks map[domain.EntityKind][]domain.SaveHook
}

func NewSaveService(p SaveParams) *SaveService {
	return &SaveService{
		db:        p.DB,
		log:       p.Log.Named("commerce.save"),
		genID:     p.GenID,
		repo:      p.Repo,
		formatter: p.Formatter,
		hooks:     make(map[domain.EntityKind][]domain.SaveHook),
	}
}

func (s *SaveService) RegisterHook(kind domain.EntityKind, hook domain.SaveHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[kind] = append(s.hooks[kind], hook)
}

func (s *SaveService) hooksFor(kind domain.EntityKind) []domain.SaveHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.SaveHook(nil), s.hooks[kind]...)
}

func (s *SaveService) Save(ctx context.Context, kind domain.EntityKind, form url.Values) (*domain.SaveResult, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	id, isNew, err := s.resolveID(form.Get("id"))
	if err != nil {
		return nil, err
	}
	siteID, err := parseOptionalInt(form.Get("siteId"), defaultSiteID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.writeEntity(ctx, tx, kind, id, form); err != nil {
			return err
		}

		ev := domain.SaveEvent{
			Kind:   kind,
			ID:     id,
			SiteID: siteID,
			IsNew:  isNew,
			Form:   form,
			Tx:     tx,
		}
		for _, hook := range s.hooksFor(kind) {
			if err := hook(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("entity save failed", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("entity saved", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Bool("is_new", isNew))
	return &domain.SaveResult{Kind: kind, ID: id, IsNew: isNew}, nil
}

func (s *SaveService) resolveID(raw string) (int64, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.genID.Generate().Int64(), true, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, domain.ErrInvalidID
	}
	return id, false, nil
}

func (s *SaveService) writeEntity(ctx context.Context, tx *gorm.DB, kind domain.EntityKind, id int64, form url.Values) error {
	switch kind {
	case domain.EntityProduct, domain.EntityTicket:
		title := strings.TrimSpace(form.Get("title"))
		if title == "" {
			return domain.ErrInvalidName
		}
		price, err := s.amount(form, "price")
		if err != nil {
			return err
		}
		typ := domain.PurchasableProduct
		if kind == domain.EntityTicket {
			typ = domain.PurchasableTicket
		}
		return s.repo.UpsertPurchasable(ctx, tx, &domain.Purchasable{
			ID:    id,
			Type:  typ,
			SKU:   strings.TrimSpace(form.Get("sku")),
			Title: title,
			Price: price,
		})

	case domain.EntityShippingRule:
		name := strings.TrimSpace(form.Get("name"))
		if name == "" {
			return domain.ErrInvalidName
		}
		baseRate, err := s.amount(form, "baseRate")
		if err != nil {
			return err
		}
		perItemRate, err := s.amount(form, "perItemRate")
		if err != nil {
			return err
		}
		return s.repo.UpsertShippingRule(ctx, tx, &domain.ShippingRule{
			ID:          id,
			Name:        name,
			Enabled:     parseBool(form.Get("enabled"), true),
			BaseRate:    baseRate,
			PerItemRate: perItemRate,
		})

	case domain.EntityDiscount:
		name := strings.TrimSpace(form.Get("name"))
		if name == "" {
			return domain.ErrInvalidName
		}
		purchaseTotal, err := s.amount(form, "purchaseTotal")
		if err != nil {
			return err
		}
		baseDiscount, err := s.amount(form, "baseDiscount")
		if err != nil {
			return err
		}
		perItemDiscount, err := s.amount(form, "perItemDiscount")
		if err != nil {
			return err
		}
		var code *string
		if c := strings.TrimSpace(form.Get("code")); c != "" {
			code = &c
		}
		return s.repo.UpsertDiscount(ctx, tx, &domain.Discount{
			ID:              id,
			Name:            name,
			Code:            code,
			PurchaseTotal:   purchaseTotal,
			BaseDiscount:    baseDiscount,
			PerItemDiscount: perItemDiscount,
		})

	case domain.EntityAddonDiscount:
		name := strings.TrimSpace(form.Get("name"))
		if name == "" {
			return domain.ErrInvalidName
		}
		perItemDiscount, err := s.amount(form, "perItemDiscount")
		if err != nil {
			return err
		}
		return s.repo.UpsertAddonDiscount(ctx, tx, &domain.AddonDiscount{
			ID:              id,
			Name:            name,
			PerItemDiscount: perItemDiscount,
		})
	}
	return domain.ErrInvalidKind
}

func (s *SaveService) amount(form url.Values, field string) (decimal.Decimal, error) {
	d, err := s.formatter.ParseDecimal(form.Get(field))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, field)
	}
	return d, nil
}

func parseOptionalInt(raw string, def int64) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
