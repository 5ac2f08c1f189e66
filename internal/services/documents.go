package services

import (
	"context"
	"net/http"
	"slices"
	"time"

	"dashboard/internal/backend"
	"dashboard/internal/export"
	"dashboard/internal/handlers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/table"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func rowValues(row models.DocumentRow) map[string]any { return row.Values }

func rowFileCount(row models.DocumentRow) float64 { return float64(len(row.Files)) }

// FlattenBatches turns the batch -> document tree into one row per document.
func FlattenBatches(batches []models.SharedBatch) []models.DocumentRow {
	var rows []models.DocumentRow
	for _, batch := range batches {
		for _, doc := range batch.Documents {
			values := make(map[string]any, len(doc.Values))
			for _, v := range doc.Values {
				values[v.Nome] = v.Value
			}
			rows = append(rows, models.DocumentRow{
				BatchID:       batch.ID,
				BatchTitle:    batch.Title,
				SentAt:        batch.SentAt,
				Sharer:        batch.Sharer,
				DocumentClass: batch.DocumentClass,
				DocumentID:    doc.ID,
				Files:         doc.Files,
				Values:        values,
			})
		}
	}
	return rows
}

// ColumnsFor returns the dynamic columns of the documents table. With a class
// selected only its fields apply, otherwise the fields of every class present
// in rows, first definition of a nome wins.
func ColumnsFor(classes []models.DocumentClass, rows []models.DocumentRow, classID int64) []models.DocumentClassField {
	present := make(map[int64]bool)
	for _, row := range rows {
		present[row.DocumentClass.ID] = true
	}

	var fields []models.DocumentClassField
	seen := make(map[string]bool)
	for _, class := range classes {
		if classID != 0 && class.ID != classID {
			continue
		}
		if classID == 0 && !present[class.ID] {
			continue
		}

		ordered := slices.Clone(class.Fields)
		slices.SortStableFunc(ordered, func(a, b models.DocumentClassField) int { return a.SortOrder - b.SortOrder })
		for _, field := range ordered {
			if seen[field.Nome] {
				continue
			}
			seen[field.Nome] = true
			fields = append(fields, field)
		}
	}
	if fields == nil {
		fields = []models.DocumentClassField{}
	}
	return fields
}

func documentSearchFields(row models.DocumentRow) []string {
	out := []string{row.BatchTitle, row.Sharer.Nominativo, row.DocumentClass.Name}
	for _, f := range row.Files {
		out = append(out, f.Name)
	}
	for _, v := range row.Values {
		out = append(out, table.FormatValue(v))
	}
	return out
}

func documentSorter(fields []models.DocumentClassField, loc *time.Location) *table.Sorter[models.DocumentRow] {
	return table.NewSorter[models.DocumentRow]().
		Text("title", func(r models.DocumentRow) string { return r.BatchTitle }).
		Date("sent_at", func(r models.DocumentRow) time.Time { return r.SentAt }).
		Number("file_count", rowFileCount).
		Text("sharer", func(r models.DocumentRow) string { return r.Sharer.Nominativo }).
		Text("class", func(r models.DocumentRow) string { return r.DocumentClass.Name }).
		Dynamic(func(key string, locale string) (table.Comparator[models.DocumentRow], bool) {
			field, ok := table.FieldByKey(fields, key)
			if !ok {
				return nil, false
			}
			return table.FieldComparator(field, rowValues, locale, loc), true
		})
}

// FilterDocuments applies the fixed and dynamic filters, then the sort.
func FilterDocuments(
	rows []models.DocumentRow,
	fields []models.DocumentClassField,
	query models.DocumentQueryParams,
	locale string,
	loc *time.Location,
) ([]models.DocumentRow, error) {
	from, to, err := parseBounds(query.From, query.To)
	if err != nil {
		return nil, err
	}

	predicates := []table.Predicate[models.DocumentRow]{
		table.GlobalTextFilter(documentSearchFields, query.Query),
		table.DateRangeFilter(func(r models.DocumentRow) (time.Time, bool) { return r.SentAt, !r.SentAt.IsZero() }, from, to, loc),
	}
	if query.Class != 0 {
		predicates = append(predicates, func(r models.DocumentRow) bool { return r.DocumentClass.ID == query.Class })
	}

	for nome, raw := range query.Fields {
		field, ok := table.FieldByKey(fields, table.FieldKeyPrefix+nome)
		if !ok {
			return nil, table.ErrInvalidFilter
		}
		predicate, err := table.FieldFilter(field, rowValues, raw, loc)
		if err != nil {
			return nil, err
		}
		predicates = append(predicates, predicate)
	}

	filtered := table.Filter(rows, table.All(predicates...))
	return documentSorter(fields, loc).Apply(filtered, query.Sort, locale)
}

func documentColumns(fields []models.DocumentClassField) []export.Column[models.DocumentRow] {
	columns := []export.Column[models.DocumentRow]{
		{Header: "Invio", Value: func(r models.DocumentRow) any { return r.BatchTitle }},
		{Header: "Inviato il", Value: func(r models.DocumentRow) any { return r.SentAt }},
		{Header: "Mittente", Value: func(r models.DocumentRow) any { return r.Sharer.Nominativo }},
		{Header: "Classe documentale", Value: func(r models.DocumentRow) any { return r.DocumentClass.Name }},
		{Header: "File", Value: func(r models.DocumentRow) any { return len(r.Files) }},
	}
	for _, field := range fields {
		columns = append(columns, export.Column[models.DocumentRow]{
			Header: field.Label,
			Value:  func(r models.DocumentRow) any { return table.FormatValue(r.Values[field.Nome]) },
		})
	}
	return columns
}

// DocumentService serves the documents shared with a viewer.
type DocumentService struct {
	Backend  *backend.Client
	Settings Settings
}

func (s DocumentService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeExactRole(models.RoleViewer))

	r.With(m.ValidateQuery[models.DocumentQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.List))
	r.With(m.ValidateQuery[models.DocumentQueryParams]).Get("/export", handlers.StreamHandler(s.Export))

	return r
}

// load fetches the batches and the class schemas as one unit.
func (s DocumentService) load(ctx context.Context, current models.Session) ([]models.SharedBatch, []models.DocumentClass, error) {
	var batches []models.SharedBatch
	var classes []models.DocumentClass

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		batches, err = s.Backend.ListViewerBatches(gctx, current.BackendToken)
		return err
	})
	g.Go(func() error {
		var err error
		classes, err = s.Backend.ListDocumentClasses(gctx, current.BackendToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return batches, classes, nil
}

func (s DocumentService) view(
	ctx context.Context,
	current models.Session,
	query models.DocumentQueryParams,
) ([]models.DocumentClassField, []models.DocumentRow, error) {
	batches, classes, err := s.load(ctx, current)
	if err != nil {
		return nil, nil, err
	}

	rows := FlattenBatches(batches)
	fields := ColumnsFor(classes, rows, query.Class)
	filtered, err := FilterDocuments(rows, fields, query, s.Settings.localeOf(current), s.Settings.location())
	if err != nil {
		return nil, nil, err
	}
	return fields, filtered, nil
}

func (s DocumentService) List(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DocumentQueryParams,
) (models.DocumentTable, error) {
	fields, rows, err := s.view(ctx, current, query)
	if err != nil {
		return models.DocumentTable{}, err
	}
	return models.DocumentTable{
		Fields: fields,
		Page:   table.Paginate(rows, query.Page, s.Settings.pageSize(query.PageSize)),
	}, nil
}

func (s DocumentService) Export(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DocumentQueryParams,
	w http.ResponseWriter,
) error {
	fields, rows, err := s.view(ctx, current, query)
	if err != nil {
		return err
	}
	return export.ServeXLSX(w, "documenti.xlsx", "Documenti", documentColumns(fields), rows)
}
