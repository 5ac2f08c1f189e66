package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBatches() []models.SharedBatch {
	return []models.SharedBatch{
		{
			ID:            10,
			Title:         "Dichiarazione 2024",
			SentAt:        time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC),
			DocumentClass: models.DocumentClassRef{ID: 1, Name: "Fiscale"},
			Documents: []models.Document{
				{ID: 100, Files: []models.File{
					{ID: 1, Name: "b.pdf", Size: 300, MimeType: "application/pdf", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
					{ID: 2, Name: "a.png", Size: 100, MimeType: "image/png", CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
				}, Values: []models.FieldValue{
					{FieldID: 7, Nome: "protocollo", Value: "FATT-2025-999"},
					{FieldID: 8, Nome: "importo", Value: 1250.5},
				}},
			},
			Viewers: []models.ViewerRef{{ID: 42, Nominativo: "Mario Neri"}},
		},
		{
			ID:            11,
			Title:         "Buste paga marzo",
			SentAt:        time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC),
			DocumentClass: models.DocumentClassRef{ID: 2, Name: "Lavoro"},
			Documents: []models.Document{
				{ID: 101, Files: []models.File{{ID: 3, Name: "c.pdf"}}},
				{ID: 102, Files: []models.File{{ID: 4, Name: "d.pdf"}, {ID: 5, Name: "e.pdf"}, {ID: 6, Name: "f.pdf"}}},
			},
			Viewers: []models.ViewerRef{{ID: 43, Nominativo: "Lucia Gialli", CodiceFiscale: ptr("GLLLCU85M41F205X"), PartitaIVA: ptr("01234567890")}},
		},
	}
}

func batchIDs(items []models.BatchListItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestFilterBatches(t *testing.T) {
	items := make([]models.BatchListItem, 0)
	for _, b := range testBatches() {
		items = append(items, b.ToListItem())
	}

	tests := []struct {
		name     string
		query    models.BatchQueryParams
		expected []int64
	}{
		{"keep everything without filters", models.BatchQueryParams{}, []int64{10, 11}},
		{"match the title", models.BatchQueryParams{Title: "buste"}, []int64{11}},
		{"search viewer names", models.BatchQueryParams{Query: "neri"}, []int64{10}},
		{"search viewer tax codes", models.BatchQueryParams{Query: "glllcu85"}, []int64{11}},
		{"search viewer vat numbers", models.BatchQueryParams{Query: "0123456"}, []int64{11}},
		{"search document values", models.BatchQueryParams{Query: "fatt-2025"}, []int64{10}},
		{"include the whole upper day", models.BatchQueryParams{To: "2025-03-01"}, []int64{10}},
		{"keep one sided lower bounds", models.BatchQueryParams{From: "2025-03-02"}, []int64{11}},
		{"filter by viewer", models.BatchQueryParams{Viewers: []int64{43, 99}}, []int64{11}},
		{"sort by file count", models.BatchQueryParams{Sort: "file_count_desc"}, []int64{11, 10}},
		{"sort by title", models.BatchQueryParams{Sort: "title_asc"}, []int64{11, 10}},
	}

	for _, tt := range tests {
		t.Run("should "+tt.name, func(t *testing.T) {
			filtered, err := FilterBatches(items, tt.query, "it", time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, batchIDs(filtered))
		})
	}

	t.Run("should reject an inverted range", func(t *testing.T) {
		_, err := FilterBatches(items, models.BatchQueryParams{From: "2025-03-10", To: "2025-03-01"}, "it", time.UTC)
		require.Error(t, err)
		assert.Equal(t, apierrors.ErrCodeInvalidDateRange, apierrors.AsAPIError(err).Message)
	})

	t.Run("should read the upper day in the configured location", func(t *testing.T) {
		rome, err := time.LoadLocation("Europe/Rome")
		require.NoError(t, err)

		// 23:30 UTC on March 1st is already March 2nd in Rome.
		filtered, err := FilterBatches(items, models.BatchQueryParams{To: "2025-03-01"}, "it", rome)
		require.NoError(t, err)
		assert.Empty(t, filtered)
	})
}

func TestBatchService(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	fake, client := newFakeBackend(t)
	fake.handle(http.MethodGet, "/api/sharer/batches/", http.StatusOK, map[string]any{"results": testBatches()})
	fake.handle(http.MethodGet, "/api/sharer/batches/10/", http.StatusOK, testBatches()[0])
	service := BatchService{Backend: client, Settings: testSettings()}

	t.Run("should page the batch list", func(t *testing.T) {
		page, err := service.List(ctx, logger, sharerSession(), nil, models.BatchQueryParams{PageSize: 1})

		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalItems)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, 2, page.Items[0].FileCount)
	})

	t.Run("should sort the files of a batch", func(t *testing.T) {
		tests := []struct {
			sort     string
			expected []int64
		}{
			{"name_asc", []int64{2, 1}},
			{"size_desc", []int64{1, 2}},
			{"type_asc", []int64{1, 2}},
			{"date_asc", []int64{2, 1}},
		}
		for _, tt := range tests {
			files, err := service.Files(ctx, logger, sharerSession(), []int64{10}, models.FileQueryParams{Sort: tt.sort})
			require.NoError(t, err)
			ids := []int64{files[0].ID, files[1].ID}
			assert.Equal(t, tt.expected, ids, tt.sort)
		}
	})

	t.Run("should report a missing batch", func(t *testing.T) {
		_, err := service.GetOne(ctx, logger, sharerSession(), []int64{99})
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apierrors.AsAPIError(err).Code)
	})

	t.Run("should only serve sharer accounts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		withSession(service.Routes(), adminSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
