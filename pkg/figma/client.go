package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.figma.com"

// ClientConfig controls Client behavior.
type ClientConfig struct {
	// Token is the personal access token sent as X-Figma-Token.
	Token string

	// BaseURL overrides the API endpoint (for testing). Empty = production.
	BaseURL string

	// RequestsPerSecond caps outgoing request rate. 0 = default (2 rps).
	RequestsPerSecond float64

	// CacheSize is the number of fetched files kept in the LRU cache.
	// 0 = default (32). Negative disables caching.
	CacheSize int

	// MaxBodyBytes caps the response body size; larger bodies are treated
	// as malformed. 0 = default (50 MB).
	MaxBodyBytes int64

	// Logger for request-level diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Client fetches file trees and project listings from the Figma REST API.
//
// Thread-safe: the underlying http.Client, rate limiter and LRU cache all
// support concurrent use, so a single Client can serve batched fetches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	limiter    *rate.Limiter
	cache      *lru.Cache[string, *File]
	maxBody    int64
	log        *slog.Logger
}

// NewClient creates a Figma API client.
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = 2
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody == 0 {
		maxBody = 50 * 1024 * 1024
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var cache *lru.Cache[string, *File]
	if cfg.CacheSize >= 0 {
		size := cfg.CacheSize
		if size == 0 {
			size = 32
		}
		cache, _ = lru.New[string, *File](size)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      cache,
		maxBody:    maxBody,
		log:        logger.With(slog.String("component", "figma")),
	}
}

// HasToken reports whether the client was configured with an access token.
func (c *Client) HasToken() bool { return c.token != "" }

// FetchFile retrieves a file's document tree and component manifest.
// Results are cached by file key for the lifetime of the client.
func (c *Client) FetchFile(ctx context.Context, fileKey string) (*File, error) {
	if c.cache != nil {
		if f, ok := c.cache.Get(fileKey); ok {
			c.log.Debug("file cache hit", "file_key", fileKey)
			return f, nil
		}
	}

	reqURL := fmt.Sprintf("%s/v1/files/%s", c.baseURL, url.PathEscape(fileKey))
	body, err := c.doRequest(ctx, fileKey, reqURL)
	if err != nil {
		return nil, err
	}

	var resp fileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedError{Key: fileKey, Cause: err}
	}
	if resp.Document == nil {
		return nil, &MalformedError{Key: fileKey, Cause: fmt.Errorf("missing document tree")}
	}

	file := &File{
		Key:        fileKey,
		Name:       resp.Name,
		Document:   resp.Document,
		Components: resp.Components,
	}
	if c.cache != nil {
		c.cache.Add(fileKey, file)
	}

	c.log.Debug("file fetched",
		"file_key", fileKey,
		"name", resp.Name,
		"components", len(resp.Components))

	return file, nil
}

// ListProjectFiles returns the keys and names of all files in a project.
func (c *Client) ListProjectFiles(ctx context.Context, projectID string) ([]ProjectFile, error) {
	reqURL := fmt.Sprintf("%s/v1/projects/%s/files", c.baseURL, url.PathEscape(projectID))
	body, err := c.doRequest(ctx, projectID, reqURL)
	if err != nil {
		return nil, err
	}

	var resp projectFilesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedError{Key: projectID, Cause: err}
	}

	c.log.Debug("project files listed", "project_id", projectID, "files", len(resp.Files))
	return resp.Files, nil
}

// doRequest executes a GET request and returns the response body, mapping
// status codes onto the typed error taxonomy.
func (c *Client) doRequest(ctx context.Context, key, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UnavailableError{Key: key, Cause: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &UnavailableError{Key: key, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Figma-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Preserve context errors so deadline expiry classifies as timeout.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &UnavailableError{Key: key, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusNotFound:
		return nil, &NotFoundError{Key: key}
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, &ForbiddenError{Key: key}
	case http.StatusTooManyRequests:
		return nil, &RateLimitedError{Key: key}
	default:
		return nil, &UnavailableError{Key: key, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &UnavailableError{Key: key, Cause: err}
	}
	if len(body) == 0 {
		return nil, &MalformedError{Key: key, Cause: fmt.Errorf("empty body")}
	}
	if int64(len(body)) > c.maxBody {
		return nil, &MalformedError{Key: key, Cause: fmt.Errorf("body exceeds %d bytes", c.maxBody)}
	}

	return body, nil
}
