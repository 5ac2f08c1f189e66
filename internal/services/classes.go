package services

import (
	"context"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	"dashboard/internal/handlers"
	"dashboard/internal/messaging"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DocumentClassService edits the field schema of document classes. Admin only.
// Path ids: id0 is the class, id1 the field, id2 the enum option.
type DocumentClassService struct {
	Backend   *backend.Client
	Publisher messaging.IPublisher
}

func (s DocumentClassService) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeExactRole(models.RoleAdmin))

	r.Get("/", handlers.GetOneHandler(s.List))

	r.Route("/{id0}/fields", func(r chi.Router) {
		r.Get("/", handlers.GetOneHandler(s.ListFields))
		r.With(m.Validate[models.FieldCreateBody]).Post("/", handlers.CreateHandler(s.CreateField))
		r.With(m.Validate[models.FieldReorderBody]).Put("/order", handlers.UpdateHandler(s.ReorderFields))

		r.Route("/{id1}", func(r chi.Router) {
			r.With(m.Validate[models.FieldUpdateBody]).Patch("/", handlers.UpdateHandler(s.UpdateField))
			r.Delete("/", handlers.DeleteHandler(s.DeleteField))

			r.With(m.Validate[models.EnumOptionBody]).Post("/options", handlers.CreateHandler(s.CreateOption))
			r.With(m.Validate[models.EnumOptionBody]).Put("/options/{id2}", handlers.UpdateHandler(s.UpdateOption))
			r.Delete("/options/{id2}", handlers.DeleteHandler(s.DeleteOption))
		})
	})

	return r
}

func (s DocumentClassService) List(ctx context.Context, _ *zap.Logger, current models.Session, _ []int64) ([]models.DocumentClass, error) {
	return s.Backend.ListDocumentClasses(ctx, current.BackendToken)
}

func (s DocumentClassService) ListFields(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) ([]models.DocumentClassField, error) {
	return s.Backend.ListClassFields(ctx, current.BackendToken, ids[0])
}

func (s DocumentClassService) CreateField(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	ids []int64,
	body models.FieldCreateBody,
) (models.DocumentClassField, error) {
	field, err := s.Backend.CreateClassField(ctx, current.BackendToken, ids[0], body)
	if err != nil {
		return models.DocumentClassField{}, err
	}

	recordActivity(s.Publisher, current, activity.FieldCreated, models.ActionCreate, models.ObjectField, field.ID, field)
	logger.Info("Document class field created", zap.Int64("class_id", ids[0]), zap.String("nome", field.Nome))
	return field, nil
}

func (s DocumentClassService) UpdateField(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.FieldUpdateBody,
) (models.DocumentClassField, error) {
	field, err := s.Backend.UpdateClassField(ctx, current.BackendToken, ids[0], ids[1], body)
	if err != nil {
		return models.DocumentClassField{}, err
	}

	recordActivity(s.Publisher, current, activity.FieldUpdated, models.ActionUpdate, models.ObjectField, field.ID, field)
	return field, nil
}

func (s DocumentClassService) DeleteField(ctx context.Context, logger *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.DeleteClassField(ctx, current.BackendToken, ids[0], ids[1]); err != nil {
		return err
	}

	recordActivity(s.Publisher, current, activity.FieldDeleted, models.ActionDelete, models.ObjectField, ids[1], nil)
	logger.Info("Document class field deleted", zap.Int64("class_id", ids[0]), zap.Int64("field_id", ids[1]))
	return nil
}

func (s DocumentClassService) ReorderFields(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.FieldReorderBody,
) ([]models.DocumentClassField, error) {
	fields, err := s.Backend.ReorderClassFields(ctx, current.BackendToken, ids[0], body)
	if err != nil {
		return nil, err
	}

	recordActivity(s.Publisher, current, activity.FieldsReordered, models.ActionReorder, models.ObjectField, ids[0], body)
	return fields, nil
}

func (s DocumentClassService) CreateOption(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.EnumOptionBody,
) (models.EnumOption, error) {
	option, err := s.Backend.CreateEnumOption(ctx, current.BackendToken, ids[1], body)
	if err != nil {
		return models.EnumOption{}, err
	}

	recordActivity(s.Publisher, current, activity.OptionCreated, models.ActionCreate, models.ObjectOption, option.ID, option)
	return option, nil
}

func (s DocumentClassService) UpdateOption(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	ids []int64,
	body models.EnumOptionBody,
) (models.EnumOption, error) {
	option, err := s.Backend.UpdateEnumOption(ctx, current.BackendToken, ids[1], ids[2], body)
	if err != nil {
		return models.EnumOption{}, err
	}

	recordActivity(s.Publisher, current, activity.OptionUpdated, models.ActionUpdate, models.ObjectOption, option.ID, option)
	return option, nil
}

func (s DocumentClassService) DeleteOption(ctx context.Context, _ *zap.Logger, current models.Session, ids []int64) error {
	if err := s.Backend.DeleteEnumOption(ctx, current.BackendToken, ids[1], ids[2]); err != nil {
		return err
	}

	recordActivity(s.Publisher, current, activity.OptionDeleted, models.ActionDelete, models.ObjectOption, ids[2], nil)
	return nil
}
