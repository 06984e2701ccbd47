package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"id", "category_id", "category_name", "name", "description",
	"price", "code", "is_active", "fudo_id", "created_at", "updated_at",
}

var syncLogCols = []string{
	"id", "product_id", "action", "direction", "details", "status",
	"error_message", "performed_by", "created_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "pgx"), mock
}

func TestFindProductByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		now := time.Now()
		mock.ExpectQuery(`LEFT JOIN categories c ON c.id = p.category_id\s+WHERE p.id = \$1`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow("p1", "c1", "Tacos", "Taco", nil, 9000.0, "T1", true, "f1", now, now))

		p, err := NewPGRepository(db).FindProductByID(context.Background(), "p1")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "Taco", p.Name)
		require.NotNil(t, p.CategoryName)
		assert.Equal(t, "Tacos", *p.CategoryName)
		assert.Nil(t, p.Description)
		require.NotNil(t, p.FudoID)
		assert.Equal(t, "f1", *p.FudoID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM products p`).WithArgs("nope").WillReturnRows(sqlmock.NewRows(productCols))

		p, err := NewPGRepository(db).FindProductByID(context.Background(), "nope")
		assert.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM products p`).WillReturnError(errors.New("connection reset"))

		_, err := NewPGRepository(db).FindProductByID(context.Background(), "p1")
		assert.Error(t, err)
	})
}

func TestSetFudoID(t *testing.T) {
	query := regexp.QuoteMeta(`UPDATE products SET fudo_id = $1, updated_at = NOW() WHERE id = $2`)

	t.Run("linked", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("f9", "p1").WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewPGRepository(db).SetFudoID(context.Background(), "p1", "f9"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(query).WithArgs("f9", "gone").WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewPGRepository(db).SetFudoID(context.Background(), "gone", "f9")
		assert.ErrorContains(t, err, "gone")
	})
}

func TestSyncLogAppend(t *testing.T) {
	db, mock := newMockDB(t)
	details := `{"name":"Taco"}`
	entry := &model.SyncLogEntry{
		ID:          "l1",
		ProductID:   "p1",
		Action:      model.SyncActionCreate,
		Direction:   model.SyncDirectionLocalToFudo,
		Details:     &details,
		Status:      model.SyncStatusSuccess,
		PerformedBy: "u-7",
		CreatedAt:   time.Now(),
	}

	mock.ExpectExec(`INSERT INTO sync_logs`).
		WithArgs("l1", "p1", "create", "local_to_fudo", details, "success", nil, "u-7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSyncLogPGRepository(db).Append(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLogListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPrepare(`WHERE product_id = \$1 AND \(details ILIKE \$2 OR error_message ILIKE \$3\)`).
		ExpectQuery().
		WithArgs("p1", "%price%", "%price%", 10).
		WillReturnRows(sqlmock.NewRows(syncLogCols).
			AddRow("l1", "p1", "update", "local_to_fudo", nil, "error", "bad price", "system", time.Now()))

	entries, err := NewSyncLogPGRepository(db).List(context.Background(),
		&dto.LogFilters{ProductID: "p1", Query: "price", Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.SyncStatusError, entries[0].Status)
	require.NotNil(t, entries[0].ErrorMessage)
	assert.Equal(t, "bad price", *entries[0].ErrorMessage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLogListUnfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectPrepare(`FROM sync_logs\s+ORDER BY created_at DESC\s+LIMIT \$1`).
		ExpectQuery().
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows(syncLogCols))

	entries, err := NewSyncLogPGRepository(db).List(context.Background(), &dto.LogFilters{Limit: 50})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
