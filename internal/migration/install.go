package migration

import (
	"context"
	"fmt"

	"github.com/smallbiznis/currencyprices/internal/currencyprice/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type schemaObject struct {
	model any
	name  string
}

var priceIndexes = []schemaObject{
	{&domain.PurchasablePrice{}, "idx_cp_purchasable_iso"},
	{&domain.PurchasablePrice{}, "idx_cp_iso"},
	{&domain.ShippingCategoryPrice{}, "idx_srccp_rule"},
	{&domain.ShippingCategoryPrice{}, "idx_srccp_category"},
	{&domain.ShippingCategoryPrice{}, "idx_srccp_iso"},
	{&domain.ShippingCategoryPrice{}, "idx_srccp_rule_category_iso"},
	{&domain.ShippingRulePrice{}, "idx_srcp_rule"},
	{&domain.ShippingRulePrice{}, "idx_srcp_iso"},
	{&domain.ShippingRulePrice{}, "idx_srcp_rule_iso"},
	{&domain.DiscountPrice{}, "idx_dcp_discount"},
	{&domain.DiscountPrice{}, "idx_dcp_iso"},
	{&domain.DiscountPrice{}, "idx_dcp_discount_iso"},
	{&domain.AddonDiscountPrice{}, "idx_adcp_discount"},
	{&domain.AddonDiscountPrice{}, "idx_adcp_iso"},
	{&domain.AddonDiscountPrice{}, "idx_adcp_discount_iso"},
}

// The add-on table is deliberately absent.
var priceForeignKeys = []schemaObject{
	{&domain.PurchasablePrice{}, "fk_cp_purchasable"},
	{&domain.PurchasablePrice{}, "fk_cp_currency"},
	{&domain.ShippingCategoryPrice{}, "fk_srccp_category"},
	{&domain.ShippingCategoryPrice{}, "fk_srccp_rule"},
	{&domain.ShippingCategoryPrice{}, "fk_srccp_currency"},
	{&domain.ShippingRulePrice{}, "fk_srcp_rule"},
	{&domain.ShippingRulePrice{}, "fk_srcp_currency"},
	{&domain.DiscountPrice{}, "fk_dcp_discount"},
	{&domain.DiscountPrice{}, "fk_dcp_currency"},
}

type Hook func(ctx context.Context, tx *gorm.DB) error

// Installer owns the lifecycle of the currency price tables.
type Installer struct {
	db  *gorm.DB
	log *zap.Logger

	refreshSchema     Hook
	insertDefaultData Hook
}

func NewInstaller(db *gorm.DB, log *zap.Logger) *Installer {
	i := &Installer{
		db:                db,
		log:               log.Named("migration.installer"),
		insertDefaultData: func(context.Context, *gorm.DB) error { return nil },
	}
	i.refreshSchema = i.reloadColumns
	return i
}

// Up creates the price tables unless commerce_currencyprices already exists.
// It reports whether anything was created.
func (i *Installer) Up(ctx context.Context) (bool, error) {
	if i.db.WithContext(ctx).Migrator().HasTable(domain.TablePurchasablePrices) {
		i.log.Info("currency price tables present, skipping install")
		return false, nil
	}

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := i.createTables(tx); err != nil {
			return err
		}
		if err := i.createIndexes(tx); err != nil {
			return err
		}
		if err := i.addForeignKeys(tx); err != nil {
			return err
		}
		if err := i.refreshSchema(ctx, tx); err != nil {
			return fmt.Errorf("refresh schema: %w", err)
		}
		return i.insertDefaultData(ctx, tx)
	})
	if err != nil {
		return false, err
	}

	i.log.Info("currency price tables installed", zap.Int("tables", len(domain.Models())))
	return true, nil
}

// Down drops every price table that exists.
func (i *Installer) Down(ctx context.Context) error {
	models := domain.Models()
	m := i.db.WithContext(ctx).Migrator()
	for idx := len(models) - 1; idx >= 0; idx-- {
		if err := m.DropTable(models[idx]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	i.log.Info("currency price tables removed")
	return nil
}

func (i *Installer) createTables(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, model := range domain.Models() {
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

func (i *Installer) createIndexes(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, idx := range priceIndexes {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := m.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (i *Installer) addForeignKeys(tx *gorm.DB) error {
	m := tx.Migrator()
	for _, fk := range priceForeignKeys {
		if m.HasConstraint(fk.model, fk.name) {
			continue
		}
		if err := m.CreateConstraint(fk.model, fk.name); err != nil {
			return fmt.Errorf("add foreign key %s: %w", fk.name, err)
		}
	}
	return nil
}

func (i *Installer) reloadColumns(ctx context.Context, tx *gorm.DB) error {
	m := tx.WithContext(ctx).Migrator()
	for _, model := range domain.Models() {
		cols, err := m.ColumnTypes(model)
		if err != nil {
			return err
		}
		i.log.Debug("table columns loaded", zap.Int("columns", len(cols)))
	}
	return nil
}
