package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "pgx")), mock
}

func TestListModulesDecodesJSONColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM delivery_modules\s+ORDER BY sort_order, created_at`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "type", "max_items", "items", "enabled", "sort_order"}).
			AddRow("m1", "Salsas", "multiple-choice", int64(2), []byte(`[{"name":"Verde","price":0,"active":true}]`), true, int64(1)).
			AddRow("m2", "Bebida", "single-choice", nil, nil, false, int64(2)))

	modules, err := repo.ListModules(context.Background())
	require.NoError(t, err)
	require.Len(t, modules, 2)

	assert.Equal(t, model.ModuleTypeMultipleChoice, modules[0].Type)
	require.NotNil(t, modules[0].MaxItems)
	assert.Equal(t, 2, *modules[0].MaxItems)
	assert.Equal(t, model.ModuleItems{{Name: "Verde", Price: 0, Active: true}}, modules[0].Items)

	assert.Nil(t, modules[1].MaxItems)
	assert.Empty(t, modules[1].Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindTemplateByCategory(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM delivery_category_templates\s+WHERE category_id = \$1`).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"category_id", "modules_order", "overrides"}).
				AddRow("c1", []byte(`["m2","m1"]`), []byte(`{"m1":{"max_items":3}}`)))

		tpl, err := repo.FindTemplateByCategory(context.Background(), "c1")
		require.NoError(t, err)
		require.NotNil(t, tpl)
		assert.Equal(t, model.ModuleIDs{"m2", "m1"}, tpl.ModulesOrder)
		require.Contains(t, tpl.Overrides, "m1")
		maxItems, ok := tpl.Overrides["m1"].MaxItems.Get()
		assert.True(t, ok)
		assert.Equal(t, 3, maxItems)
	})

	t.Run("missing row is not an error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM delivery_category_templates`).
			WithArgs("c9").
			WillReturnRows(sqlmock.NewRows([]string{"category_id", "modules_order", "overrides"}))

		tpl, err := repo.FindTemplateByCategory(context.Background(), "c9")
		assert.NoError(t, err)
		assert.Nil(t, tpl)
	})
}

func TestFindProductConfigMissing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM delivery_product_configs\s+WHERE product_id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "modules", "overrides"}))

	cfg, err := repo.FindProductConfig(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Nil(t, cfg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindProductCategory(t *testing.T) {
	query := `SELECT category_id FROM products WHERE id = \$1`

	t.Run("with category", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("p1").
			WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow("c1"))

		cat, found, err := repo.FindProductCategory(context.Background(), "p1")
		require.NoError(t, err)
		assert.True(t, found)
		require.NotNil(t, cat)
		assert.Equal(t, "c1", *cat)
	})

	t.Run("uncategorized", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("p2").
			WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow(nil))

		cat, found, err := repo.FindProductCategory(context.Background(), "p2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Nil(t, cat)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(query).WithArgs("p3").
			WillReturnRows(sqlmock.NewRows([]string{"category_id"}))

		cat, found, err := repo.FindProductCategory(context.Background(), "p3")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, cat)
	})
}
