// Package catalogapi is the HTTP client for the remote catalog service.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/models"
	"github.com/go-faster/errors"
)

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code: %d", e.Method, e.URL, e.Code)
}

// Client talks to the products collection of the remote catalog service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the collection at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListProducts fetches the full product collection
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &products); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// CreateProduct posts a new product and returns it with the server-assigned ID
func (c *Client) CreateProduct(ctx context.Context, p models.NewProduct) (models.Product, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return models.Product{}, errors.Wrap(err, "encode product")
	}

	var created models.Product
	if err := c.do(ctx, http.MethodPost, c.baseURL, body, &created); err != nil {
		return models.Product{}, errors.Wrap(err, "create product")
	}
	return created, nil
}

// DeleteProduct removes a product and returns the raw response payload.
// Nothing in the storefront calls it yet.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (json.RawMessage, error) {
	url := c.baseURL + "/" + strconv.FormatInt(id, 10)

	var payload json.RawMessage
	if err := c.do(ctx, http.MethodDelete, url, nil, &payload); err != nil {
		return nil, errors.Wrapf(err, "delete product %d", id)
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, URL: url, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
