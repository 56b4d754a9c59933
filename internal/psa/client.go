package psa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jyl33/cardscanner-backend/pkg/config"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
	"github.com/jyl33/cardscanner-backend/pkg/metrics"
)

const responseBodyReadLimit int64 = 1024

var certURLRe = regexp.MustCompile(`/cert/(\d+)`)

// Cache is the subset of the redis client the lookup path needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CertCacheKey(certNumber string) string
}

// Client resolves PSA certification numbers against the public cert API,
// with a read-through cache in front of it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cacheTTL   time.Duration
	cache      Cache
	metrics    *metrics.APIMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithCache attaches a read-through certification cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithMetrics attaches lookup metrics.
func WithMetrics(m *metrics.APIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the PSA lookup client.
func NewClient(cfg config.PSAConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("psa base url is required")
	}
	client := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		token:      strings.TrimSpace(cfg.AccessToken),
		cacheTTL:   cfg.CacheTTL,
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return client, nil
}

// ExtractCertNumber pulls a certification number out of a raw barcode
// payload. PSA labels encode either the bare number or a
// https://www.psacard.com/cert/NNNN URL.
func ExtractCertNumber(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.Contains(trimmed, "psacard.com") {
		if m := certURLRe.FindStringSubmatch(trimmed); m != nil {
			return m[1]
		}
		return ""
	}
	return trimmed
}

// FetchCertification resolves a raw scan payload to a certification record.
// Any transport error, non-2xx status, or empty payload resolves as
// (nil, nil): the scanner treats every miss the same way.
func (c *Client) FetchCertification(ctx context.Context, raw string) (*Certification, error) {
	certNumber := ExtractCertNumber(raw)
	if certNumber == "" {
		c.metrics.IncLookup("no_match")
		return nil, nil
	}

	if cached := c.cacheLookup(ctx, certNumber); cached != nil {
		c.metrics.IncLookup("match")
		return cached, nil
	}

	start := time.Now()
	cert, err := c.fetchRemote(ctx, certNumber)
	c.metrics.ObserveLookupDuration("api", time.Since(start))
	if err != nil {
		c.logg.Warn(c.logg.WithCertNumber(ctx, certNumber), "psa lookup failed: "+err.Error())
		c.metrics.IncLookup("error")
		return nil, nil
	}
	if cert == nil {
		c.metrics.IncLookup("no_match")
		return nil, nil
	}

	c.cacheStore(ctx, certNumber, cert)
	c.metrics.IncLookup("match")
	return cert, nil
}

func (c *Client) fetchRemote(ctx context.Context, certNumber string) (*Certification, error) {
	endpoint := fmt.Sprintf("%s/cert/GetByCertNumber/%s", c.baseURL, url.PathEscape(certNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build cert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute cert request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var envelope certEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode cert response: %w", err)
	}
	if envelope.PSACert == nil || envelope.PSACert.CertNumber == "" {
		return nil, nil
	}
	return envelope.PSACert, nil
}

// cacheLookup returns the cached certification or nil. Cache errors degrade
// to a direct fetch.
func (c *Client) cacheLookup(ctx context.Context, certNumber string) *Certification {
	if c.cache == nil {
		return nil
	}
	payload, err := c.cache.Get(ctx, c.cache.CertCacheKey(certNumber))
	if err != nil || payload == "" {
		return nil
	}
	var cert Certification
	if err := json.Unmarshal([]byte(payload), &cert); err != nil {
		return nil
	}
	c.metrics.ObserveLookupDuration("cache", 0)
	return &cert
}

func (c *Client) cacheStore(ctx context.Context, certNumber string, cert *Certification) {
	if c.cache == nil {
		return
	}
	payload, err := json.Marshal(cert)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, c.cache.CertCacheKey(certNumber), string(payload), c.cacheTTL); err != nil {
		c.logg.Warn(c.logg.WithCertNumber(ctx, certNumber), "psa cache store failed: "+err.Error())
	}
}
