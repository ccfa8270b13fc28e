package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"caseflow-be/internal/apperror"
	"caseflow-be/internal/entity"
	"caseflow-be/internal/workflow"
)

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient builds the production client. The remote service speaks JSON
// and authenticates with a bearer API key.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) Client {
	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) GetCase(ctx context.Context, id uuid.UUID) (*entity.Case, error) {
	var w caseWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/cases/%s", id), nil, &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

func (c *httpClient) CreateCase(ctx context.Context, req CaseCreate) (*entity.Case, error) {
	var w caseWire
	if err := c.do(ctx, http.MethodPost, "/v1/cases", req, &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

func (c *httpClient) UpdateCase(ctx context.Context, id uuid.UUID, partial CaseUpdate) (*entity.Case, error) {
	var w caseWire
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/cases/%s", id), partial, &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

func (c *httpClient) ListCases(ctx context.Context, filter CaseFilter) ([]*entity.Case, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Add("status", string(filter.Status))
	}
	if filter.AdvisorId != uuid.Nil {
		params.Add("advisor_id", filter.AdvisorId.String())
	}
	if filter.Search != "" {
		params.Add("q", filter.Search)
	}

	path := "/v1/cases"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var result struct {
		Cases []caseWire `json:"cases"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	cases := make([]*entity.Case, 0, len(result.Cases))
	for i := range result.Cases {
		cases = append(cases, result.Cases[i].toEntity())
	}
	return cases, nil
}

func (c *httpClient) GetCollectedData(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	var data entity.CollectedData
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/cases/%s/collected-data", caseId), nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *httpClient) UpdateCollectedData(ctx context.Context, caseId uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error) {
	var data entity.CollectedData
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/cases/%s/collected-data", caseId), partial, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *httpClient) MarkStepComplete(ctx context.Context, caseId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error) {
	path := fmt.Sprintf("/v1/cases/%s/steps/%s/complete", caseId, step)
	var data entity.CollectedData
	if err := c.do(ctx, http.MethodPost, path, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// do performs one round trip. Non-2xx responses become UpstreamError with the
// body folded into the message; 401 and 404 map onto the sentinel errors.
func (c *httpClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	operation := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request for %s: %w", operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.NewUpstreamError(operation, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.NewUpstreamError(operation, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return apperror.NewUpstreamError(operation, resp.StatusCode, fmt.Errorf("%s", bytes.TrimSpace(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewUpstreamError(operation, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
