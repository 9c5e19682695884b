package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/flowctl/flowctl/internal/ferrors"
)

// HTTPClient is the reference JobService implementation: a thin wrapper
// around the tenancy's REST job-scheduling API.
type HTTPClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewHTTPClient returns a client with sane defaults; HTTP may be
// overridden by the caller (e.g. in tests, via httptest.Server.Client()).
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Jobs []jobDTO `json:"jobs"`
}

type jobDTO struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	StartedAt time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func parseStatus(s string) Status {
	switch s {
	case "pending":
		return Pending
	case "running":
		return Running
	case "suspended":
		return Suspended
	case "succeeded":
		return Succeeded
	case "failed":
		return Failed
	case "cancelled":
		return Cancelled
	default:
		return Unknown
	}
}

func (d jobDTO) timestamp() time.Time {
	switch parseStatus(d.Status) {
	case Pending:
		return d.CreatedAt
	case Running:
		return d.StartedAt
	default:
		return d.FinishedAt
	}
}

func (c *HTTPClient) List(ctx context.Context, tags []string, statuses []Status, since time.Time) ([]JobInfo, error) {
	q := url.Values{}
	for _, t := range tags {
		q.Add("tag", t)
	}
	for _, s := range statuses {
		q.Add("status", s.String())
	}
	if !since.IsZero() {
		q.Set("since", strconv.FormatInt(since.Unix(), 10))
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/jobs?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	out := make([]JobInfo, len(resp.Jobs))
	for i, d := range resp.Jobs {
		out[i] = JobInfo{
			ID:        d.ID,
			Status:    parseStatus(d.Status),
			RemoteID:  d.ID,
			Tags:      d.Tags,
			Timestamp: d.timestamp(),
		}
	}
	return out, nil
}

func (c *HTTPClient) Status(ctx context.Context, remoteID string) (JobInfo, error) {
	var d jobDTO
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(remoteID), nil, &d); err != nil {
		return JobInfo{}, err
	}
	return JobInfo{
		ID:        d.ID,
		Status:    parseStatus(d.Status),
		RemoteID:  d.ID,
		Tags:      d.Tags,
		Timestamp: d.timestamp(),
	}, nil
}

func (c *HTTPClient) Kill(ctx context.Context, remoteID string) error {
	return c.do(ctx, http.MethodPost, "/jobs/"+url.PathEscape(remoteID)+"/kill", nil, nil)
}

type runRequest struct {
	Args []string `json:"args"`
}

type runResponse struct {
	ID string `json:"id"`
}

func (c *HTTPClient) Run(ctx context.Context, args []string) (string, error) {
	var resp runResponse
	if err := c.do(ctx, http.MethodPost, "/jobs", runRequest{Args: args}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

type shareRequest struct {
	URI  string `json:"uri"`
	Role string `json:"role"`
}

func (c *HTTPClient) Share(ctx context.Context, uri, role string) error {
	return c.do(ctx, http.MethodPost, "/shares", shareRequest{URI: uri, Role: role}, nil)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (c *HTTPClient) AddRole(ctx context.Context, role string) error {
	err := c.do(ctx, http.MethodPost, "/roles", roleRequest{Role: role}, nil)
	if err == nil {
		return nil
	}
	var authErr *ferrors.Authorization
	var existsErr *ferrors.AlreadyExists
	if errors.As(err, &authErr) || errors.As(err, &existsErr) {
		return nil
	}
	return err
}

func (c *HTTPClient) Logs(ctx context.Context, remoteID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/jobs/"+url.PathEscape(remoteID)+"/logs", nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s/logs: %w", remoteID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &ferrors.NotFound{Job: remoteID}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading logs: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("GET %s/logs: status %d: %s", remoteID, resp.StatusCode, string(data))
	}
	return string(data), nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &ferrors.NotFound{}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &ferrors.Authorization{Reason: resp.Status}
	}
	if resp.StatusCode == http.StatusConflict {
		return &ferrors.AlreadyExists{Resource: path}
	}
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
