package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/liskovpm/scrum-service/internal/adapters/http/middleware"
	"github.com/liskovpm/scrum-service/internal/platform/httpclient"
)

// requester centralizes the HTTP request lifecycle for the API client:
// request creation, identity header injection, JSON marshaling, execution
// via httpclient.Client, status code validation, error translation, and
// JSON decoding.
type requester struct {
	client *httpclient.Client
	logger *slog.Logger
}

// do executes an HTTP request against the configured base URL.
//
// A positive actorID is sent as the acting user's identity header. It
// marshals reqBody to JSON (if non-nil), sends the request, validates the
// status code against wantStatus, and decodes the response body into
// respBody (if non-nil). Non-matching status codes are translated into
// domain errors.
func (r *requester) do(ctx context.Context, method, path string, actorID int64, wantStatus int, reqBody, respBody any) error {
	url := r.client.BaseURL() + path

	var payload *bytes.Reader
	if reqBody != nil {
		body, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling %s body for %s: %w", method, path, err)
		}
		payload = bytes.NewReader(body)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("creating %s request for %s: %w", method, path, err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID > 0 {
		req.Header.Set(middleware.HeaderUserID, strconv.FormatInt(actorID, 10))
	}

	return r.execute(req, wantStatus, respBody)
}

// closeBody closes an HTTP response body and logs on failure.
func (r *requester) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		r.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}

// execute sends the request, checks the status code, and optionally
// decodes the response body. It ensures resp.Body is always closed.
func (r *requester) execute(req *http.Request, wantStatus int, respBody any) error {
	resp, err := r.client.Do(req.Context(), req)
	if err != nil {
		// httpclient.Do can return both resp and err when retries are
		// exhausted on a retryable status. In that case, translate the
		// response into a domain error rather than returning the raw
		// retry error.
		if resp != nil {
			defer r.closeBody(req.Context(), resp)
			if resp.StatusCode != wantStatus {
				return translateHTTPError(resp)
			}
		}
		r.logger.ErrorContext(req.Context(), "request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer r.closeBody(req.Context(), resp)

	if resp.StatusCode != wantStatus {
		translateErr := translateHTTPError(resp)
		r.logger.ErrorContext(req.Context(), "unexpected status",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Int("want_status", wantStatus),
		)
		return translateErr
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("decoding response from %s %s: %w", req.Method, req.URL.Path, err)
		}
	}

	return nil
}
