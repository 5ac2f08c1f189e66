package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/export"
	"dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testClasses = []models.DocumentClass{
	{ID: 1, Name: "Fiscale", Fields: []models.DocumentClassField{
		{ID: 11, Label: "Anno", Nome: "anno", Tipo: models.FieldTypeNumber, SortOrder: 2},
		{ID: 12, Label: "Scadenza", Nome: "scadenza", Tipo: models.FieldTypeDate, SortOrder: 1},
		{ID: 13, Label: "Pagato", Nome: "pagato", Tipo: models.FieldTypeBoolean, SortOrder: 3},
	}},
	{ID: 2, Name: "Lavoro", Fields: []models.DocumentClassField{
		{ID: 21, Label: "Mese", Nome: "mese", Tipo: models.FieldTypeEnum, SortOrder: 1},
		{ID: 22, Label: "Anno", Nome: "anno", Tipo: models.FieldTypeNumber, SortOrder: 2},
	}},
	{ID: 3, Name: "Vuota"},
}

func viewerBatches() []models.SharedBatch {
	return []models.SharedBatch{
		{
			ID: 10, Title: "Dichiarazione", SentAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			DocumentClass: models.DocumentClassRef{ID: 1, Name: "Fiscale"},
			Documents: []models.Document{
				{ID: 100, Files: []models.File{{ID: 1, Name: "730.pdf"}}, Values: []models.FieldValue{
					{Nome: "anno", Value: 2024.0}, {Nome: "scadenza", Value: "2025-06-30"}, {Nome: "pagato", Value: true},
				}},
				{ID: 101, Values: []models.FieldValue{
					{Nome: "anno", Value: 2023.0}, {Nome: "pagato", Value: "false"},
				}},
			},
		},
		{
			ID: 11, Title: "Buste paga", SentAt: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
			DocumentClass: models.DocumentClassRef{ID: 2, Name: "Lavoro"},
			Documents: []models.Document{
				{ID: 102, Values: []models.FieldValue{{Nome: "mese", Value: "marzo"}, {Nome: "anno", Value: 2025.0}}},
			},
		},
	}
}

func documentIDs(rows []models.DocumentRow) []int64 {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.DocumentID
	}
	return ids
}

func TestFlattenBatches(t *testing.T) {
	rows := FlattenBatches(viewerBatches())

	require.Len(t, rows, 3)
	assert.Equal(t, []int64{100, 101, 102}, documentIDs(rows))
	assert.Equal(t, "Dichiarazione", rows[1].BatchTitle)
	assert.Equal(t, 2024.0, rows[0].Values["anno"])
	assert.Nil(t, rows[1].Values["scadenza"])
}

func TestColumnsFor(t *testing.T) {
	rows := FlattenBatches(viewerBatches())

	t.Run("should use the fields of the selected class in display order", func(t *testing.T) {
		fields := ColumnsFor(testClasses, rows, 1)
		names := []string{fields[0].Nome, fields[1].Nome, fields[2].Nome}
		assert.Equal(t, []string{"scadenza", "anno", "pagato"}, names)
	})

	t.Run("should merge the classes present in the rows", func(t *testing.T) {
		fields := ColumnsFor(testClasses, rows, 0)
		assert.Len(t, fields, 4)
	})

	t.Run("should return an empty list for a class without fields", func(t *testing.T) {
		fields := ColumnsFor(testClasses, rows, 3)
		assert.NotNil(t, fields)
		assert.Empty(t, fields)
	})
}

func TestFilterDocuments(t *testing.T) {
	rows := FlattenBatches(viewerBatches())
	fields := ColumnsFor(testClasses, rows, 0)

	tests := []struct {
		name     string
		query    models.DocumentQueryParams
		expected []int64
	}{
		{"filter by class", models.DocumentQueryParams{Class: 2}, []int64{102}},
		{"match numbers exactly", models.DocumentQueryParams{Fields: map[string][]string{"anno": {"2024"}}}, []int64{100}},
		{"ignore non numeric number filters", models.DocumentQueryParams{Fields: map[string][]string{"anno": {"abc"}}}, []int64{100, 101, 102}},
		{"filter booleans by tag", models.DocumentQueryParams{Fields: map[string][]string{"pagato": {"false"}}}, []int64{101}},
		{"keep missing booleans as null", models.DocumentQueryParams{Fields: map[string][]string{"pagato": {"null"}}}, []int64{102}},
		{"filter enums", models.DocumentQueryParams{Fields: map[string][]string{"mese": {"marzo", "aprile"}}}, []int64{102}},
		{"filter date ranges", models.DocumentQueryParams{Fields: map[string][]string{"scadenza": {"2025-06-01..2025-06-30"}}}, []int64{100}},
		{"search file names", models.DocumentQueryParams{Query: "730"}, []int64{100}},
		{"sort by a number field", models.DocumentQueryParams{Sort: "field.anno_desc"}, []int64{102, 100, 101}},
		{"sort missing dates last", models.DocumentQueryParams{Sort: "field.scadenza_asc"}, []int64{100, 101, 102}},
		{"sort by sent date", models.DocumentQueryParams{Sort: "sent_at_desc"}, []int64{102, 100, 101}},
	}

	for _, tt := range tests {
		t.Run("should "+tt.name, func(t *testing.T) {
			filtered, err := FilterDocuments(rows, fields, tt.query, "it", time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, documentIDs(filtered))
		})
	}

	t.Run("should reject a filter on an unknown field", func(t *testing.T) {
		_, err := FilterDocuments(rows, fields, models.DocumentQueryParams{
			Fields: map[string][]string{"iban": {"IT60"}},
		}, "it", time.UTC)
		require.Error(t, err)
		assert.Equal(t, apierrors.ErrCodeInvalidFilter, apierrors.AsAPIError(err).Message)
	})

	t.Run("should reject a malformed date filter", func(t *testing.T) {
		_, err := FilterDocuments(rows, fields, models.DocumentQueryParams{
			Fields: map[string][]string{"scadenza": {"30/06/2025"}},
		}, "it", time.UTC)
		require.Error(t, err)
	})

	t.Run("should reject a sort on an unknown field", func(t *testing.T) {
		_, err := FilterDocuments(rows, fields, models.DocumentQueryParams{Sort: "field.iban_asc"}, "it", time.UTC)
		require.Error(t, err)
		assert.Equal(t, apierrors.ErrCodeInvalidSort, apierrors.AsAPIError(err).Message)
	})
}

func TestDocumentService(t *testing.T) {
	fake, client := newFakeBackend(t)
	fake.handle(http.MethodGet, "/api/viewer/batches/", http.StatusOK, viewerBatches())
	fake.handle(http.MethodGet, "/api/document-classes/", http.StatusOK, testClasses)
	service := DocumentService{Backend: client, Settings: testSettings()}

	t.Run("should return the page with its columns", func(t *testing.T) {
		resp, err := service.List(context.Background(), zap.NewNop(), viewerSession(), nil,
			models.DocumentQueryParams{Class: 1, PageSize: 1})

		require.NoError(t, err)
		assert.Len(t, resp.Fields, 3)
		assert.Equal(t, 2, resp.TotalItems)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("should read field filters from the query string", func(t *testing.T) {
		rec := httptest.NewRecorder()
		withSession(service.Routes(), viewerSession()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?field.anno=2025", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_items":1`)
	})

	t.Run("should export the documents", func(t *testing.T) {
		rec := httptest.NewRecorder()
		withSession(service.Routes(), viewerSession()).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export?class=1", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	})

	t.Run("should only serve viewer accounts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		withSession(service.Routes(), adminSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
