package handlers

import (
	"context"
	"net/http"

	apierrors "dashboard/internal/errors"
	h "dashboard/internal/helpers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"

	"go.uber.org/zap"
)

type GetOneTargetFunc[Out any] func(context.Context, *zap.Logger, models.Session, []int64) (Out, error)
type QueryTargetFunc[Q any, Out any] func(context.Context, *zap.Logger, models.Session, []int64, Q) (Out, error)
type BodyTargetFunc[In any, Out any] func(context.Context, *zap.Logger, models.Session, []int64, In) (Out, error)
type DeleteTargetFunc func(context.Context, *zap.Logger, models.Session, []int64) error

// RequestContext extracts what every typed handler needs. It writes the
// error response itself and returns false when the request cannot proceed.
func RequestContext(w http.ResponseWriter, r *http.Request) (*zap.Logger, models.Session, []int64, bool) {
	session, err := h.GetSession(r.Context())
	if err != nil {
		// Public routes run without a session.
		session = models.Session{}
	}

	ids, ok := h.ParseIDs(w, r)
	if !ok {
		return nil, models.Session{}, nil, false
	}

	return m.GetLogger(r), session, ids, true
}

// RespondWithAPIError writes err as an API error response.
func RespondWithAPIError(w http.ResponseWriter, logger *zap.Logger, err error) {
	apiErr := apierrors.AsAPIError(err)
	if apiErr.Code >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", apiErr.Code), zap.Error(err))
	}
	h.RespondWithError(w, apiErr.Code, []string{apiErr.Message})
}

func GetOneHandler[Out any](getOne GetOneTargetFunc[Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, session, ids, ok := RequestContext(w, r)
		if !ok {
			return
		}

		record, err := getOne(r.Context(), logger, session, ids)
		if err != nil {
			RespondWithAPIError(w, logger, err)
			return
		}

		h.RespondWithJSON(w, http.StatusOK, record)
	}
}

func GetOneWithQueryHandler[Q any, Out any](getOne QueryTargetFunc[Q, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, session, ids, ok := RequestContext(w, r)
		if !ok {
			return
		}

		queryParams, ok := r.Context().Value(m.QueryKey{}).(Q)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{"INVALID_QUERY_PARAMS"})
			return
		}

		record, err := getOne(r.Context(), logger, session, ids, queryParams)
		if err != nil {
			RespondWithAPIError(w, logger, err)
			return
		}

		h.RespondWithJSON(w, http.StatusOK, record)
	}
}

func bodyHandler[In any, Out any](status int, target BodyTargetFunc[In, Out]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, session, ids, ok := RequestContext(w, r)
		if !ok {
			return
		}

		body, ok := r.Context().Value(m.BodyKey{}).(In)
		if !ok {
			h.RespondWithError(w, http.StatusBadRequest, []string{apierrors.ErrCodeInvalidBody})
			return
		}

		resp, err := target(r.Context(), logger, session, ids, body)
		if err != nil {
			RespondWithAPIError(w, logger, err)
			return
		}

		h.RespondWithJSON(w, status, resp)
	}
}

func CreateHandler[In any, Out any](create BodyTargetFunc[In, Out]) http.HandlerFunc {
	return bodyHandler(http.StatusCreated, create)
}

func UpdateHandler[In any, Out any](update BodyTargetFunc[In, Out]) http.HandlerFunc {
	return bodyHandler(http.StatusOK, update)
}

// ActionHandler runs a bodiless POST and answers with its result.
func ActionHandler[Out any](action GetOneTargetFunc[Out]) http.HandlerFunc {
	return GetOneHandler(action)
}

func DeleteHandler(del DeleteTargetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, session, ids, ok := RequestContext(w, r)
		if !ok {
			return
		}

		if err := del(r.Context(), logger, session, ids); err != nil {
			RespondWithAPIError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type StreamTargetFunc[Q any] func(context.Context, *zap.Logger, models.Session, []int64, Q, http.ResponseWriter) error

// StreamHandler lets the target write a non-JSON response itself. Errors are
// only rendered when the target has not written anything yet.
func StreamHandler[Q any](stream StreamTargetFunc[Q]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger, session, ids, ok := RequestContext(w, r)
		if !ok {
			return
		}

		// Routes without a query validator stream with the zero value.
		queryParams, _ := r.Context().Value(m.QueryKey{}).(Q)

		tracked := &writeTracker{ResponseWriter: w}
		if err := stream(r.Context(), logger, session, ids, queryParams, tracked); err != nil {
			if tracked.written {
				logger.Warn("Stream interrupted", zap.Error(err))
				return
			}
			RespondWithAPIError(w, logger, err)
		}
	}
}

type writeTracker struct {
	http.ResponseWriter
	written bool
}

func (t *writeTracker) WriteHeader(status int) {
	t.written = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *writeTracker) Write(b []byte) (int, error) {
	t.written = true
	return t.ResponseWriter.Write(b)
}

func (t *writeTracker) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}
