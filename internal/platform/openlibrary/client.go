package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://openlibrary.org"

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

type Option func(*Client)

// WithLimiter throttles every outbound request through l.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a client for the Open Library JSON API. Callers bound
// each call with a context deadline; the client itself has no timeout.
func NewClient(baseURL, userAgent string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubjectResponse matches subjects/{subject}.json
type SubjectResponse struct {
	Name      string `json:"name"`
	WorkCount int    `json:"work_count"`
	Works     []Work `json:"works"`
}

// Work is one entry of a subject listing.
type Work struct {
	Key             string   `json:"key"`
	Title           string   `json:"title"`
	Authors         []Author `json:"authors"`
	CoverID         *int     `json:"cover_id"`
	CoverEditionKey string   `json:"cover_edition_key"`
}

type Author struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// WorkDetails matches works/{id}.json
type WorkDetails struct {
	Title       string `json:"title"`
	Description any    `json:"description"` // string or {type, value}
}

// DescriptionText returns the description whichever shape it was sent in.
func (w WorkDetails) DescriptionText() string {
	return formatDescription(w.Description)
}

// Edition matches books/{key}.json
type Edition struct {
	Title         string   `json:"title"`
	NumberOfPages *int     `json:"number_of_pages"`
	ISBN13        []string `json:"isbn_13"`
	ISBN10        []string `json:"isbn_10"`
	Publishers    []string `json:"publishers"`
	PublishDate   string   `json:"publish_date"`
}

func (c *Client) SubjectWorks(ctx context.Context, subject string, limit int) (*SubjectResponse, error) {
	u := fmt.Sprintf("%s/subjects/%s.json?limit=%d", c.baseURL, url.PathEscape(subject), limit)

	var res SubjectResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Work(ctx context.Context, workID string) (*WorkDetails, error) {
	// workID may arrive as "/works/OL..W" or just "OL..W"
	id := strings.TrimPrefix(workID, "/works/")
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(id))

	var res WorkDetails
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Edition(ctx context.Context, editionKey string) (*Edition, error) {
	key := strings.TrimPrefix(editionKey, "/books/")
	u := fmt.Sprintf("%s/books/%s.json", c.baseURL, url.PathEscape(key))

	var res Edition
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

func formatDescription(d any) string {
	if s, ok := d.(string); ok {
		return s
	}
	if m, ok := d.(map[string]any); ok {
		if v, ok := m["value"].(string); ok {
			return v
		}
	}
	return ""
}
