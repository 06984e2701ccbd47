package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// UpdateStatus is a single conditional write. Rows in the error state and
// rows already at the target status are left untouched.
func (r *PGRepository) UpdateStatus(ctx context.Context, id reconcile.Identifier, status model.OrderStatus) (int64, error) {
	column, err := identifierColumn(id.Kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
        UPDATE orders
        SET fudo_status = $1, updated_at = NOW()
        WHERE %s = $2
          AND fudo_status IS DISTINCT FROM $3
          AND fudo_status IS DISTINCT FROM $1
    `, column)

	res, err := r.DB.ExecContext(ctx, query, status, id.Value, model.OrderStatusError)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// identifierColumn whitelists the columns an identifier may filter on.
func identifierColumn(kind reconcile.IdentifierKind) (string, error) {
	switch kind {
	case reconcile.IdentifierExternalID:
		return "external_id", nil
	case reconcile.IdentifierFudoOrderID:
		return "fudo_order_id", nil
	default:
		return "", fmt.Errorf("unsupported identifier %q", kind)
	}
}
