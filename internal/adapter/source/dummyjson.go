package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/rl1809/storefront/internal/core/domain"
)

const DefaultCatalogURL = "https://dummyjson.com/products"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedPayload = errors.New("malformed catalog payload")
)

type productsResponse struct {
	Products *[]domain.Product `json:"products"`
}

// HTTPCatalog reads the product list from a dummyjson-style endpoint.
// Only the first page the endpoint returns is used.
type HTTPCatalog struct {
	client *http.Client
	url    string
}

func NewHTTPCatalog(client *http.Client, url string) *HTTPCatalog {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultCatalogURL
	}
	return &HTTPCatalog{client: client, url: url}
}

func (c *HTTPCatalog) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var payload productsResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.Products == nil {
		return nil, fmt.Errorf("%w: missing products array", ErrMalformedPayload)
	}
	return *payload.Products, nil
}
