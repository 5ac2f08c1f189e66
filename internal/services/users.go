package services

import (
	"context"
	"net/http"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	"dashboard/internal/events"
	"dashboard/internal/export"
	"dashboard/internal/handlers"
	"dashboard/internal/messaging"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/table"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var sharerSorter = table.NewSorter[models.Sharer]().
	Text("username", func(u models.Sharer) string { return u.Username }).
	Text("nominativo", func(u models.Sharer) string { return u.Nominativo }).
	Text("email", func(u models.Sharer) string { return u.Email }).
	Date("created_at", func(u models.Sharer) time.Time { return u.CreatedAt })

var viewerSorter = table.NewSorter[models.Viewer]().
	Text("username", func(u models.Viewer) string { return u.Username }).
	Text("nominativo", func(u models.Viewer) string { return u.Nominativo }).
	Text("email", func(u models.Viewer) string { return u.Email }).
	Text("codice_fiscale", func(u models.Viewer) string { return deref(u.CodiceFiscale) }).
	Text("partita_iva", func(u models.Viewer) string { return deref(u.PartitaIVA) }).
	Date("created_at", func(u models.Viewer) time.Time { return u.CreatedAt })

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func sharerSearchFields(u models.Sharer) []string {
	return []string{u.Username, u.Nominativo, u.Email}
}

func viewerSearchFields(u models.Viewer) []string {
	return []string{u.Username, u.Nominativo, u.Email, deref(u.CodiceFiscale), deref(u.PartitaIVA)}
}

// userView filters and sorts a user table; pagination is left to the caller.
func userView[T any](
	records []T,
	query models.UserQueryParams,
	sorter *table.Sorter[T],
	searchFields func(T) []string,
	active func(T) bool,
	locale string,
) ([]T, error) {
	filtered := table.Filter(records, table.All(
		table.GlobalTextFilter(searchFields, query.Query),
		table.ActiveStatusFilter(active, query.Active),
	))
	return sorter.Apply(filtered, query.Sort, locale)
}

var sharerColumns = []export.Column[models.Sharer]{
	{Header: "Username", Value: func(u models.Sharer) any { return u.Username }},
	{Header: "Nominativo", Value: func(u models.Sharer) any { return u.Nominativo }},
	{Header: "Email", Value: func(u models.Sharer) any { return u.Email }},
	{Header: "Attivo", Value: func(u models.Sharer) any { return u.Active }},
	{Header: "Creato il", Value: func(u models.Sharer) any { return u.CreatedAt }},
}

var viewerColumns = []export.Column[models.Viewer]{
	{Header: "Username", Value: func(u models.Viewer) any { return u.Username }},
	{Header: "Nominativo", Value: func(u models.Viewer) any { return u.Nominativo }},
	{Header: "Email", Value: func(u models.Viewer) any { return u.Email }},
	{Header: "Codice fiscale", Value: func(u models.Viewer) any { return deref(u.CodiceFiscale) }},
	{Header: "Partita IVA", Value: func(u models.Viewer) any { return deref(u.PartitaIVA) }},
	{Header: "Attivo", Value: func(u models.Viewer) any { return u.Active }},
	{Header: "Creato il", Value: func(u models.Viewer) any { return u.CreatedAt }},
}

// SharerService manages sharer accounts. Admin only.
type SharerService struct {
	Backend   *backend.Client
	Publisher messaging.IPublisher
	Settings  Settings
}

func (s SharerService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeRole(models.RoleAdmin))

	r.With(m.ValidateQuery[models.UserQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.List))
	r.With(m.ValidateQuery[models.UserQueryParams]).Get("/export", handlers.StreamHandler(s.Export))
	r.With(m.Validate[models.SharerCreateBody]).Post("/", handlers.CreateHandler(s.Create))

	r.Route("/{id0}", func(r chi.Router) {
		r.With(m.Validate[models.SharerUpdateBody]).Patch("/", handlers.UpdateHandler(s.Update))
		r.Delete("/", handlers.DeleteHandler(s.Delete))
		r.Post("/toggle-active", handlers.ActionHandler(s.ToggleActive))
		r.Post("/reset-password", handlers.DeleteHandler(s.ResetPassword))
		r.Post("/send-username", handlers.DeleteHandler(s.SendUsername))
	})

	return r
}

func (s SharerService) view(ctx context.Context, current models.Session, query models.UserQueryParams) ([]models.Sharer, error) {
	sharers, err := s.Backend.ListSharers(ctx, current.BackendToken)
	if err != nil {
		return nil, err
	}
	return userView(sharers, query, sharerSorter, sharerSearchFields,
		func(u models.Sharer) bool { return u.Active }, s.Settings.localeOf(current))
}

func (s SharerService) List(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.UserQueryParams,
) (models.Page[models.Sharer], error) {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return models.Page[models.Sharer]{}, err
	}
	return table.Paginate(rows, query.Page, s.Settings.pageSize(query.PageSize)), nil
}

func (s SharerService) Export(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.UserQueryParams,
	w http.ResponseWriter,
) error {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return err
	}
	return export.ServeXLSX(w, "sharer.xlsx", "Sharer", sharerColumns, rows)
}

func (s SharerService) Create(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	body models.SharerCreateBody,
) (models.Sharer, error) {
	sharer, err := s.Backend.CreateSharer(ctx, current.BackendToken, body)
	if err != nil {
		return models.Sharer{}, err
	}

	recordActivity(s.Publisher, current, activity.SharerCreated, models.ActionCreate, models.ObjectSharer,
		sharer.ID, sharer, events.AdminScope())
	logger.Info("Sharer created", zap.Int64("sharer_id", sharer.ID))
	return sharer, nil
}

func (s SharerService) Update(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.SharerUpdateBody,
) (models.Sharer, error) {
	sharer, err := s.Backend.UpdateSharer(ctx, current.BackendToken, ids[0], body)
	if err != nil {
		return models.Sharer{}, err
	}

	recordActivity(s.Publisher, current, activity.SharerUpdated, models.ActionUpdate, models.ObjectSharer,
		sharer.ID, sharer, events.AdminScope())
	return sharer, nil
}

func (s SharerService) Delete(ctx context.Context, logger *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.DeleteSharer(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}

	recordActivity(s.Publisher, current, activity.SharerDeleted, models.ActionDelete, models.ObjectSharer,
		ids[0], nil, events.AdminScope(), events.SharerScope(ids[0]))
	logger.Info("Sharer deleted", zap.Int64("sharer_id", ids[0]))
	return nil
}

func (s SharerService) ToggleActive(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
) (models.Sharer, error) {
	sharer, err := s.Backend.ToggleSharerActive(ctx, current.BackendToken, ids[0])
	if err != nil {
		return models.Sharer{}, err
	}

	recordActivity(s.Publisher, current, activity.SharerActiveToggled, models.ActionToggleActive, models.ObjectSharer,
		sharer.ID, sharer, events.AdminScope())
	return sharer, nil
}

func (s SharerService) ResetPassword(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.ResetSharerPassword(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}
	recordActivity(s.Publisher, current, activity.SharerPasswordReset, models.ActionResetPassword, models.ObjectSharer,
		ids[0], nil)
	return nil
}

func (s SharerService) SendUsername(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.SendSharerUsername(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}
	recordActivity(s.Publisher, current, activity.SharerUsernameSent, models.ActionSendUsername, models.ObjectSharer,
		ids[0], nil)
	return nil
}

// ViewerService manages viewer accounts. Sharers and admins may use it.
type ViewerService struct {
	Backend   *backend.Client
	Publisher messaging.IPublisher
	Settings  Settings
	Limits    ExtractLimits
}

func (s ViewerService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeRole(models.RoleSharer))

	r.With(m.ValidateQuery[models.UserQueryParams]).Get("/", handlers.GetOneWithQueryHandler(s.List))
	r.With(m.ValidateQuery[models.UserQueryParams]).Get("/export", handlers.StreamHandler(s.Export))
	r.With(m.Validate[models.ViewerCreateBody]).Post("/", handlers.CreateHandler(s.Create))
	r.Post("/extract", s.Extract)

	r.Route("/{id0}", func(r chi.Router) {
		r.With(m.Validate[models.ViewerUpdateBody]).Patch("/", handlers.UpdateHandler(s.Update))
		r.Delete("/", handlers.DeleteHandler(s.Delete))
		r.Post("/toggle-active", handlers.ActionHandler(s.ToggleActive))
		r.Post("/reset-password", handlers.DeleteHandler(s.ResetPassword))
		r.Post("/send-username", handlers.DeleteHandler(s.SendUsername))
	})

	return r
}

func (s ViewerService) view(ctx context.Context, current models.Session, query models.UserQueryParams) ([]models.Viewer, error) {
	viewers, err := s.Backend.ListViewers(ctx, current.BackendToken)
	if err != nil {
		return nil, err
	}
	return userView(viewers, query, viewerSorter, viewerSearchFields,
		func(u models.Viewer) bool { return u.Active }, s.Settings.localeOf(current))
}

func (s ViewerService) List(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.UserQueryParams,
) (models.Page[models.Viewer], error) {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return models.Page[models.Viewer]{}, err
	}
	return table.Paginate(rows, query.Page, s.Settings.pageSize(query.PageSize)), nil
}

func (s ViewerService) Export(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.UserQueryParams,
	w http.ResponseWriter,
) error {
	rows, err := s.view(ctx, current, query)
	if err != nil {
		return err
	}
	return export.ServeXLSX(w, "viewer.xlsx", "Viewer", viewerColumns, rows)
}

func (s ViewerService) Create(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	body models.ViewerCreateBody,
) (models.Viewer, error) {
	viewer, err := s.Backend.CreateViewer(ctx, current.BackendToken, body)
	if err != nil {
		return models.Viewer{}, err
	}

	recordActivity(s.Publisher, current, activity.ViewerCreated, models.ActionCreate, models.ObjectViewer,
		viewer.ID, viewer, events.SharerScope(current.User.ID))
	logger.Info("Viewer created", zap.Int64("viewer_id", viewer.ID))
	return viewer, nil
}

func (s ViewerService) Update(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.ViewerUpdateBody,
) (models.Viewer, error) {
	viewer, err := s.Backend.UpdateViewer(ctx, current.BackendToken, ids[0], body)
	if err != nil {
		return models.Viewer{}, err
	}

	recordActivity(s.Publisher, current, activity.ViewerUpdated, models.ActionUpdate, models.ObjectViewer,
		viewer.ID, viewer)
	return viewer, nil
}

func (s ViewerService) Delete(ctx context.Context, logger *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.DeleteViewer(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}

	recordActivity(s.Publisher, current, activity.ViewerDeleted, models.ActionDelete, models.ObjectViewer,
		ids[0], nil, events.SharerScope(current.User.ID))
	logger.Info("Viewer deleted", zap.Int64("viewer_id", ids[0]))
	return nil
}

func (s ViewerService) ToggleActive(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
) (models.Viewer, error) {
	viewer, err := s.Backend.ToggleViewerActive(ctx, current.BackendToken, ids[0])
	if err != nil {
		return models.Viewer{}, err
	}

	recordActivity(s.Publisher, current, activity.ViewerActiveToggled, models.ActionToggleActive, models.ObjectViewer,
		viewer.ID, viewer)
	return viewer, nil
}

func (s ViewerService) ResetPassword(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.ResetViewerPassword(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}
	recordActivity(s.Publisher, current, activity.ViewerPasswordReset, models.ActionResetPassword, models.ObjectViewer,
		ids[0], nil)
	return nil
}

func (s ViewerService) SendUsername(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.SendViewerUsername(ctx, current.BackendToken, ids[0]); err != nil {
		return err
	}
	recordActivity(s.Publisher, current, activity.ViewerUsernameSent, models.ActionSendUsername, models.ObjectViewer,
		ids[0], nil)
	return nil
}
