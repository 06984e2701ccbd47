package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ListModules(ctx context.Context) ([]model.DeliveryModule, error) {
	var modules []model.DeliveryModule
	query := `
        SELECT id, title, type, max_items, items, enabled, sort_order
        FROM delivery_modules
        ORDER BY sort_order, created_at
    `
	if err := r.DB.SelectContext(ctx, &modules, query); err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *PGRepository) FindTemplateByCategory(ctx context.Context, categoryID string) (*model.DeliveryCategoryTemplate, error) {
	var tpl model.DeliveryCategoryTemplate
	query := `
        SELECT category_id, modules_order, overrides
        FROM delivery_category_templates
        WHERE category_id = $1
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &tpl, query, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *PGRepository) FindProductConfig(ctx context.Context, productID string) (*model.DeliveryProductConfig, error) {
	var cfg model.DeliveryProductConfig
	query := `
        SELECT product_id, modules, overrides
        FROM delivery_product_configs
        WHERE product_id = $1
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &cfg, query, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *PGRepository) FindProductCategory(ctx context.Context, productID string) (*string, bool, error) {
	var categoryID sql.NullString
	err := r.DB.GetContext(ctx, &categoryID, `SELECT category_id FROM products WHERE id = $1`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !categoryID.Valid {
		return nil, true, nil
	}
	return &categoryID.String, true, nil
}
