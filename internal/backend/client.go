package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Client talks to the REST backend on behalf of an authenticated dashboard session.
// Calls are never retried.
type Client struct {
	http *resty.Client
	// stream carries file bodies. Only the wait for response headers is
	// bounded; the body may take as long as the request context allows.
	stream *resty.Client
}

func NewClient(config models.BackendConfiguration) *Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	streamTransport := http.DefaultTransport.(*http.Transport).Clone()
	streamTransport.ResponseHeaderTimeout = timeout
	streamClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTransport(otelhttp.NewTransport(streamTransport)).
		SetRetryCount(0)

	return &Client{http: httpClient, stream: streamClient}
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// execute runs req and converts transport failures and error statuses.
func (c *Client) execute(req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, c.transportError(method, path, err)
	}

	if resp.IsError() {
		apiErr := statusError(resp.StatusCode(), resp.Body())
		if apiErr.Code >= http.StatusInternalServerError {
			zap.L().Warn("Backend returned an error",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode()))
		}
		return nil, apiErr
	}

	return resp, nil
}

// transportError reports a request that never got a response. Cancellations
// caused by the dashboard client going away are passed through untouched.
func (c *Client) transportError(method, path string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	zap.L().Warn("Backend request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err))
	return fmt.Errorf("%w: %w", apierrors.ErrBackendUnavailable, err)
}

func decode[T any](resp *resty.Response) (T, error) {
	var out T
	body := resp.Body()
	if len(body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: invalid backend payload: %w", apierrors.ErrBackendUnavailable, err)
	}
	return out, nil
}

// decodeList accepts both bare JSON arrays and {"results": [...]} envelopes.
func decodeList[T any](resp *resty.Response) ([]T, error) {
	body := resp.Body()
	if len(body) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		if items == nil {
			items = []T{}
		}
		return items, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid backend payload: %w", apierrors.ErrBackendUnavailable, err)
	}
	if envelope.Results == nil {
		envelope.Results = []T{}
	}
	return envelope.Results, nil
}

func get[T any](ctx context.Context, c *Client, token, path string, query map[string]string) (T, error) {
	var zero T
	resp, err := c.execute(c.request(ctx, token).SetQueryParams(query), http.MethodGet, path)
	if err != nil {
		return zero, err
	}
	return decode[T](resp)
}

func list[T any](ctx context.Context, c *Client, token, path string, query map[string]string) ([]T, error) {
	resp, err := c.execute(c.request(ctx, token).SetQueryParams(query), http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return decodeList[T](resp)
}

func send[T any](ctx context.Context, c *Client, token, method, path string, body any) (T, error) {
	var zero T
	req := c.request(ctx, token)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := c.execute(req, method, path)
	if err != nil {
		return zero, err
	}
	return decode[T](resp)
}

func sendNoContent(ctx context.Context, c *Client, token, method, path string, body any) error {
	req := c.request(ctx, token)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	_, err := c.execute(req, method, path)
	return err
}

func dateRange(from, to models.Date) map[string]string {
	query := map[string]string{}
	if !from.IsZero() {
		query[queryStartDate] = from.String()
	}
	if !to.IsZero() {
		query[queryEndDate] = to.String()
	}
	return query
}
