package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const productColumns = `
    p.id, p.category_id, c.name AS category_name, p.name, p.description,
    p.price, p.code, p.is_active, p.fudo_id, p.created_at, p.updated_at
`

func (r *PGRepository) ListLocalProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        ORDER BY p.created_at, p.id
    `
	if err := r.DB.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT ` + productColumns + `
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.id = $1
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) SetFudoID(ctx context.Context, productID, fudoID string) error {
	query := `UPDATE products SET fudo_id = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, fudoID, productID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}

type SyncLogPGRepository struct {
	DB *sqlx.DB
}

func NewSyncLogPGRepository(db *sqlx.DB) *SyncLogPGRepository {
	return &SyncLogPGRepository{DB: db}
}

func (r *SyncLogPGRepository) Append(ctx context.Context, e *model.SyncLogEntry) error {
	query := `
        INSERT INTO sync_logs (
            id, product_id, action, direction, details, status,
            error_message, performed_by, created_at
        )
        VALUES (
            :id, :product_id, :action, :direction, :details, :status,
            :error_message, :performed_by, :created_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, e)
	return err
}

func (r *SyncLogPGRepository) List(ctx context.Context, f *dto.LogFilters) ([]model.SyncLogEntry, error) {
	entries := []model.SyncLogEntry{}

	conditions := []string{}
	args := map[string]interface{}{"limit": f.Limit}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.Query != "" {
		conditions = append(conditions, "(details ILIKE :search OR error_message ILIKE :search)")
		args["search"] = "%" + f.Query + "%"
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
        SELECT id, product_id, action, direction, details, status,
               error_message, performed_by, created_at
        FROM sync_logs
        %s
        ORDER BY created_at DESC
        LIMIT :limit
    `, where)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &entries, args); err != nil {
		return nil, err
	}
	return entries, nil
}
