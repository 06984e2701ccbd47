package fudo

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
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL   string
	AuthURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	PageSize  int
	MaxPages  int
}

// Client talks to the Fudo POS API. Construct one per process and pass it
// to whoever needs it.
type Client struct {
	http   *http.Client
	cfg    Config
	cb     *gobreaker.CircuitBreaker
	logger logger.ZapLogger

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewClient(cfg Config, log logger.ZapLogger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("fudo base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1000
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: log,
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fudo",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors mean the request was wrong, not that Fudo is down.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return c, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	resources, err := c.listAll(ctx, "list products", "/products")
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(resources))
	for _, r := range resources {
		products = append(products, productFromResource(r))
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var doc singleDocument
	if err := c.do(ctx, "get product", http.MethodGet, "/products/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, err
	}
	p := productFromResource(doc.Data)
	return &p, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	resources, err := c.listAll(ctx, "list categories", "/product-categories")
	if err != nil {
		return nil, err
	}
	categories := make([]Category, 0, len(resources))
	for _, r := range resources {
		categories = append(categories, categoryFromResource(r))
	}
	return categories, nil
}

// listAll walks a paginated collection until a short page. A full page
// that brings no unseen ids also ends the walk, and more than MaxPages
// pages is an error.
func (c *Client) listAll(ctx context.Context, op, path string) ([]resource, error) {
	var all []resource
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if page > c.cfg.MaxPages {
			return nil, fmt.Errorf("fudo %s: more than %d pages", op, c.cfg.MaxPages)
		}

		q := url.Values{}
		q.Set("page[size]", strconv.Itoa(c.cfg.PageSize))
		q.Set("page[number]", strconv.Itoa(page))

		var doc listDocument
		if err := c.do(ctx, op, http.MethodGet, path+"?"+q.Encode(), nil, &doc); err != nil {
			return nil, err
		}

		added := 0
		for _, r := range doc.Data {
			if _, dup := seen[r.ID]; dup {
				continue
			}
			seen[r.ID] = struct{}{}
			all = append(all, r)
			added++
		}

		if len(doc.Data) < c.cfg.PageSize {
			return all, nil
		}
		if added == 0 {
			c.logger.Warn("fudo returned a repeated page, stopping pagination",
				zap.String("op", op),
				zap.Int("page", page),
			)
			return all, nil
		}
	}
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	var doc singleDocument
	body := singleDocument{Data: toResource(in)}
	if err := c.do(ctx, "create product", http.MethodPost, "/products", body, &doc); err != nil {
		return nil, err
	}
	p := productFromResource(doc.Data)
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (*Product, error) {
	res := toResource(in)
	res.ID = id

	var doc singleDocument
	if err := c.do(ctx, "update product", http.MethodPatch, "/products/"+url.PathEscape(id), singleDocument{Data: res}, &doc); err != nil {
		return nil, err
	}
	p := productFromResource(doc.Data)
	return &p, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		err := c.send(ctx, op, method, path, body, out)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			c.logger.Info("fudo token rejected, re-authenticating", zap.String("op", op))
			c.invalidateToken()
			err = c.send(ctx, op, method, path, body, out)
		}
		return nil, err
	})
	return err
}

func (c *Client) send(ctx context.Context, op, method, path string, body, out interface{}) error {
	token, err := c.authToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fudo %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// authToken returns a cached token, fetching a new one shortly before it
// expires. Without an auth URL requests are sent unauthenticated.
func (c *Client) authToken(ctx context.Context) (string, error) {
	if c.cfg.AuthURL == "" {
		return "", nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Add(time.Minute).Before(c.tokenExp) {
		return c.token, nil
	}

	payload, err := json.Marshal(authRequest{APIKey: c.cfg.APIKey, APISecret: c.cfg.APISecret})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fudo auth: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{Op: "authenticate", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var auth authResponse
	if err := json.Unmarshal(raw, &auth); err != nil {
		return "", fmt.Errorf("decode auth response: %w", err)
	}

	c.token = auth.Token
	c.tokenExp = time.Unix(auth.Exp, 0)
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
