package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RawProduct is an upstream product object as decoded, numbers kept as
// json.Number.
type RawProduct map[string]any

//go:generate mockgen -source=catalog_client.go -destination=../mock/catalog/catalog_client_mock.go -package=mock
type Client interface {
	Search(ctx context.Context, keyword string) ([]RawProduct, error)
	Product(ctx context.Context, id string) (RawProduct, error)
}

type HTTPClient struct {
	baseURL string
	cityID  string
	http    *http.Client
}

func NewHTTPClient(baseURL, cityID string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		cityID:  cityID,
		http:    &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	Success  bool         `json:"success"`
	Products []RawProduct `json:"products"`
}

type productResponse struct {
	Success bool       `json:"success"`
	Product RawProduct `json:"product"`
}

// Search calls the autocomplete endpoint. An unsuccessful upstream answer
// is an empty result, not an error.
func (c *HTTPClient) Search(ctx context.Context, keyword string) ([]RawProduct, error) {
	q := url.Values{}
	q.Set("cityId", c.cityID)
	q.Set("keyword", keyword)

	var body searchResponse
	if _, err := c.get(ctx, "/api/autocomplete", q, &body); err != nil {
		return nil, err
	}
	if !body.Success || body.Products == nil {
		return []RawProduct{}, nil
	}
	return body.Products, nil
}

func (c *HTTPClient) Product(ctx context.Context, id string) (RawProduct, error) {
	q := url.Values{}
	q.Set("productId", id)
	q.Set("cityId", c.cityID)

	var body productResponse
	status, err := c.get(ctx, "/api/product", q, &body)
	if status == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	if !body.Success || len(body.Product) == 0 {
		return nil, ErrProductNotFound
	}
	return body.Product, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values, dst any) (int, error) {
	endpoint := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, ErrCatalogUnavailable.Wrap(fmt.Errorf("GET %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, ErrCatalogUnavailable.Wrap(fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode))
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return resp.StatusCode, ErrCatalogUnavailable.Wrap(fmt.Errorf("GET %s: decode: %w", path, err))
	}
	return resp.StatusCode, nil
}
