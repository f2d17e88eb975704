package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/geojournal/internal/models"
)

const (
	entriesPath = "/entries"
	healthPath  = "/health"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the store at baseURL, e.g.
// "http://127.0.0.1:8080". timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, out any, okStatus ...int) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if !statusIn(resp.StatusCode, okStatus) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func statusIn(code int, ok []int) bool {
	for _, c := range ok {
		if code == c {
			return true
		}
	}
	return false
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}
	return fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
}

// mapError turns transport failures into ErrUnavailable while keeping the
// cause, so both errors.Is(err, ErrUnavailable) and
// errors.Is(err, context.DeadlineExceeded) hold for a timed-out request.
func (c *HTTPClient) mapError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%w: %s %s: %w", ErrUnavailable, uerr.Op, uerr.URL, uerr.Err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *HTTPClient) List(ctx context.Context) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	if err := c.do(ctx, http.MethodGet, entriesPath, nil, &entries, http.StatusOK); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	return entries, nil
}

func (c *HTTPClient) Create(ctx context.Context, entry models.NewEntry) (models.JournalEntry, error) {
	var created models.JournalEntry
	if err := c.do(ctx, http.MethodPost, entriesPath, entry, &created, http.StatusCreated, http.StatusOK); err != nil {
		return models.JournalEntry{}, err
	}
	if created.ID == "" {
		return models.JournalEntry{}, fmt.Errorf("%w: created entry has no id", ErrDecode)
	}
	return created, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, entriesPath+"/"+url.PathEscape(id), nil, nil,
		http.StatusNoContent, http.StatusOK, http.StatusNotFound)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, healthPath, nil, nil, http.StatusOK, http.StatusNoContent)
}
