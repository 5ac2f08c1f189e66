package sql

import (
	gosql "database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestListSavedViews(t *testing.T) {
	t.Run("should decode the stored filters", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "user_id", "table_name", "name", "sort", "filters", "page_size", "created_at", "updated_at"}).
			AddRow(id.String(), 4, "sharers", "Active only", "nominativo_asc", `{"active":["true"]}`, 25, now, now)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "saved_views" WHERE user_id = $1 AND table_name = $2 ORDER BY name ASC`)).
			WithArgs(int64(4), "sharers").
			WillReturnRows(rows)

		views, err := ListSavedViews(db, 4, "sharers")
		require.NoError(t, err)
		require.Len(t, views, 1)

		assert.Equal(t, id, views[0].ID)
		assert.Equal(t, "Active only", views[0].Name)
		assert.Equal(t, map[string][]string{"active": {"true"}}, views[0].Filters)
		assert.Equal(t, 25, views[0].PageSize)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should list every table when none is given", func(t *testing.T) {
		db, mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "saved_views" WHERE user_id = $1 ORDER BY name ASC`)).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		views, err := ListSavedViews(db, 4, "")
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateSavedView(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "saved_views"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	view, err := CreateSavedView(db, 9, models.SavedViewCreateBody{
		Table:   "documents",
		Name:    "Invoices",
		Sort:    "field.importo_desc",
		Filters: map[string][]string{"class": {"3"}},
	}, 10)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, int64(9), view.UserID)
	assert.Equal(t, 10, view.PageSize, "page size falls back to the default")
	assert.JSONEq(t, `{"class":["3"]}`, view.SavedView.Filters)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSavedViewFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "saved_views"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := CreateSavedView(db, 9, models.SavedViewCreateBody{Table: "sharers", Name: "Active"}, 10)
	assert.ErrorIs(t, err, apierrors.ErrCreateFailed)
	assert.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSavedView(t *testing.T) {
	t.Run("should delete a view of the user", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "saved_views" WHERE id = $1 AND user_id = $2`)).
			WithArgs(id.String(), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, DeleteSavedView(db, 9, id))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should report a missing view as not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "saved_views" WHERE id = $1 AND user_id = $2`)).
			WithArgs(id.String(), int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := DeleteSavedView(db, 9, id)
		require.Error(t, err)
		assert.Equal(t, 404, apierrors.AsAPIError(err).Code)
		assert.Equal(t, apierrors.ErrCodeViewNotFound, err.Error())
	})

	t.Run("should wrap driver errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "saved_views"`)).
			WillReturnError(gosql.ErrConnDone)
		mock.ExpectRollback()

		err := DeleteSavedView(db, 9, id)
		require.ErrorIs(t, err, gosql.ErrConnDone)
		assert.ErrorIs(t, err, apierrors.ErrDeleteFailed)
		assert.Equal(t, 500, apierrors.AsAPIError(err).Code)
	})
}

func TestToSavedViewResponseToleratesBadFilters(t *testing.T) {
	resp := ToSavedViewResponse(models.SavedView{Filters: "not json"})
	assert.Empty(t, resp.Filters)
	assert.NotNil(t, resp.Filters)
}
