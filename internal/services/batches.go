package services

import (
	"context"
	"net/http"
	"time"

	"dashboard/internal/backend"
	"dashboard/internal/export"
	"dashboard/internal/handlers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/table"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var batchSorter = table.NewSorter[models.BatchListItem]().
	Text("title", func(b models.BatchListItem) string { return b.Title }).
	Date("sent_at", func(b models.BatchListItem) time.Time { return b.SentAt }).
	Number("file_count", func(b models.BatchListItem) float64 { return float64(b.FileCount) })

var fileSorter = table.NewSorter[models.File]().
	Text("name", func(f models.File) string { return f.Name }).
	Number("size", func(f models.File) float64 { return float64(f.Size) }).
	Text("type", func(f models.File) string { return f.MimeType }).
	Date("date", func(f models.File) time.Time { return f.CreatedAt })

func viewerIDs(viewers []models.ViewerRef) []int64 {
	ids := make([]int64, len(viewers))
	for i, v := range viewers {
		ids[i] = v.ID
	}
	return ids
}

func batchSearchFields(b models.BatchListItem) []string {
	fields := []string{b.Title, b.Sharer.Nominativo, b.DocumentClass.Name}
	for _, v := range b.Viewers {
		fields = append(fields, v.Nominativo, v.Email, deref(v.CodiceFiscale), deref(v.PartitaIVA))
	}
	for _, value := range b.Values {
		fields = append(fields, table.FormatValue(value))
	}
	return fields
}

var batchColumns = []export.Column[models.BatchListItem]{
	{Header: "Titolo", Value: func(b models.BatchListItem) any { return b.Title }},
	{Header: "Inviato il", Value: func(b models.BatchListItem) any { return b.SentAt }},
	{Header: "Classe documentale", Value: func(b models.BatchListItem) any { return b.DocumentClass.Name }},
	{Header: "Documenti", Value: func(b models.BatchListItem) any { return b.DocumentCount }},
	{Header: "File", Value: func(b models.BatchListItem) any { return b.FileCount }},
}

// BatchService lists the batches a sharer has sent. Sharer accounts only.
type BatchService struct {
	Backend  *backend.Client
	Settings Settings
}

func (s BatchService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeExactRole(models.RoleSharer))

	r.With(m.ValidateQuery[models.BatchQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.List))
	r.With(m.ValidateQuery[models.BatchQueryParams]).Get("/export", handlers.StreamHandler(s.Export))

	r.Route("/{id0}", func(r chi.Router) {
		r.Get("/", handlers.GetOneHandler(s.GetOne))
		r.With(m.ValidateQuery[models.FileQueryParams]).Get("/files", handlers.GetOneWithQueryHandler(s.Files))
	})

	return r
}

// FilterBatches applies the batch table filters and sort to items.
func FilterBatches(items []models.BatchListItem, query models.BatchQueryParams, locale string, loc *time.Location) ([]models.BatchListItem, error) {
	from, to, err := parseBounds(query.From, query.To)
	if err != nil {
		return nil, err
	}

	sentAt := func(b models.BatchListItem) (time.Time, bool) { return b.SentAt, !b.SentAt.IsZero() }
	filtered := table.Filter(items, table.All(
		table.GlobalTextFilter(batchSearchFields, query.Query),
		table.TextContainsFilter(func(b models.BatchListItem) string { return b.Title }, query.Title),
		table.DateRangeFilter(sentAt, from, to, loc),
		table.ViewerMembershipFilter(func(b models.BatchListItem) []int64 { return viewerIDs(b.Viewers) }, query.Viewers),
	))
	return batchSorter.Apply(filtered, query.Sort, locale)
}

func (s BatchService) view(ctx context.Context, current models.Session, query models.BatchQueryParams) ([]models.BatchListItem, error) {
	batches, err := s.Backend.ListSharerBatches(ctx, current.BackendToken)
	if err != nil {
		return nil, err
	}

	items := make([]models.BatchListItem, len(batches))
	for i, b := range batches {
		items[i] = b.ToListItem()
	}
	return FilterBatches(items, query, s.Settings.localeOf(current), s.Settings.location())
}

func (s BatchService) List(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.BatchQueryParams,
) (models.Page[models.BatchListItem], error) {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return models.Page[models.BatchListItem]{}, err
	}
	return table.Paginate(rows, query.Page, s.Settings.pageSize(query.PageSize)), nil
}

func (s BatchService) Export(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.BatchQueryParams,
	w http.ResponseWriter,
) error {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return err
	}
	return export.ServeXLSX(w, "invii.xlsx", "Invii", batchColumns, rows)
}

func (s BatchService) GetOne(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) (models.SharedBatch, error) {
	return s.Backend.GetSharerBatch(ctx, current.BackendToken, ids[0])
}

// Files lists every file of the batch across its documents.
func (s BatchService) Files(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	query models.FileQueryParams,
) ([]models.File, error) {
	batch, err := s.Backend.GetSharerBatch(ctx, current.BackendToken, ids[0])
	if err != nil {
		return nil, err
	}

	files := make([]models.File, 0, batch.FileCount())
	for _, doc := range batch.Documents {
		files = append(files, doc.Files...)
	}
	return fileSorter.Apply(files, query.Sort, s.Settings.localeOf(current))
}
