// Package openlibrary is the catalog-lookup client for the OpenLibrary API.
//
// Requests are rate limited and 429/5xx responses are retried with
// exponential backoff, per the OpenLibrary API usage policy.
package openlibrary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/libraryhub/libraryhub/internal/config"
)

// ErrNotFound is returned when the work or edition does not exist upstream.
var ErrNotFound = errors.New("not found in catalog")

// maxResolvedAuthors caps the per-work author lookups; works with dozens of
// contributors would otherwise fan out into that many extra requests.
const maxResolvedAuthors = 3

// Client fetches book metadata from the OpenLibrary API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a new OpenLibrary API client.
func NewClient(cfg config.OpenLibrary) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: cfg.MaxRetries,
	}
}

// SearchQuery holds the supported search filters. Empty fields are skipped.
type SearchQuery struct {
	Title     string
	Author    string
	Year      int
	Subject   string
	ISBN      string
	Publisher string
}

// Empty reports whether no filter is set.
func (q SearchQuery) Empty() bool {
	return q.Title == "" && q.Author == "" && q.Year == 0 &&
		q.Subject == "" && q.ISBN == "" && q.Publisher == ""
}

// fielded renders the query in OpenLibrary's fielded search syntax.
func (q SearchQuery) fielded() string {
	var parts []string
	if q.Title != "" {
		parts = append(parts, fmt.Sprintf("title:%q", q.Title))
	}
	if q.Author != "" {
		parts = append(parts, fmt.Sprintf("author:%q", q.Author))
	}
	if q.Year != 0 {
		parts = append(parts, fmt.Sprintf("first_publish_year:%d", q.Year))
	}
	if q.Subject != "" {
		parts = append(parts, fmt.Sprintf("subject:%q", q.Subject))
	}
	if q.ISBN != "" {
		parts = append(parts, "isbn:"+q.ISBN)
	}
	if q.Publisher != "" {
		parts = append(parts, fmt.Sprintf("publisher:%q", q.Publisher))
	}
	return strings.Join(parts, " AND ")
}

// Search runs a fielded search and returns the requested page.
// An empty query returns an empty result without calling upstream.
func (c *Client) Search(ctx context.Context, query SearchQuery, page, pageSize int) (*SearchResult, error) {
	if query.Empty() {
		return &SearchResult{Total: 0, Items: []SearchItem{}}, nil
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	searchURL := fmt.Sprintf("%s/search.json?q=%s&fields=key,title,author_name,first_publish_year,cover_i&offset=%d&limit=%d",
		c.baseURL, url.QueryEscape(query.fielded()), offset, pageSize)

	var resp searchResponse
	if err := c.get(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	result := &SearchResult{
		Total: resp.NumFound,
		Items: make([]SearchItem, 0, len(resp.Docs)),
	}
	for _, doc := range resp.Docs {
		item := SearchItem{
			WorkOLID: olidFromKey(doc.Key),
			Title:    doc.Title,
			Authors:  doc.AuthorName,
			Year:     doc.FirstPublishYear,
		}
		if doc.CoverI != 0 {
			item.CoverURL = coverURLByID(doc.CoverI)
		}
		result.Items = append(result.Items, item)
	}
	return result, nil
}

// GetWork fetches a work by its OLID and resolves author names.
func (c *Client) GetWork(ctx context.Context, workOLID string) (*WorkMetadata, error) {
	var resp workResponse
	workURL := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(workOLID))
	if err := c.get(ctx, workURL, &resp); err != nil {
		return nil, err
	}

	metadata := &WorkMetadata{
		WorkOLID:    workOLID,
		Title:       resp.Title,
		Description: descriptionString(resp.Description),
		Subjects:    resp.Subjects,
	}
	if len(resp.Covers) > 0 && resp.Covers[0] > 0 {
		metadata.CoverURL = coverURLByID(resp.Covers[0])
	}
	if resp.FirstPublishDate != "" {
		metadata.Year = extractYear(resp.FirstPublishDate)
	}

	for i, ref := range resp.Authors {
		if i >= maxResolvedAuthors {
			break
		}
		name, err := c.fetchAuthorName(ctx, ref.Author.Key)
		if err != nil {
			continue
		}
		metadata.Authors = append(metadata.Authors, name)
	}

	return metadata, nil
}

// GetEdition fetches an edition by its OLID.
func (c *Client) GetEdition(ctx context.Context, editionOLID string) (*EditionMetadata, error) {
	var resp editionResponse
	editionURL := fmt.Sprintf("%s/books/%s.json", c.baseURL, url.PathEscape(editionOLID))
	if err := c.get(ctx, editionURL, &resp); err != nil {
		return nil, err
	}

	metadata := &EditionMetadata{
		EditionOLID: editionOLID,
		Title:       resp.Title,
		Description: descriptionString(resp.Description),
		Publishers:  resp.Publishers,
		Pages:       resp.NumberOfPages,
		Subjects:    resp.Subjects,
	}
	metadata.ISBN = append(metadata.ISBN, resp.ISBN13...)
	metadata.ISBN = append(metadata.ISBN, resp.ISBN10...)
	for _, lang := range resp.Languages {
		metadata.Languages = append(metadata.Languages, strings.TrimPrefix(lang.Key, "/languages/"))
	}
	if resp.PublishDate != "" {
		metadata.Year = extractYear(resp.PublishDate)
	}
	if len(resp.Covers) > 0 && resp.Covers[0] > 0 {
		metadata.CoverURL = coverURLByID(resp.Covers[0])
	} else if len(metadata.ISBN) > 0 {
		metadata.CoverURL = fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-M.jpg", metadata.ISBN[0])
	}

	for i, ref := range resp.Authors {
		if i >= maxResolvedAuthors {
			break
		}
		name, err := c.fetchAuthorName(ctx, ref.Key)
		if err != nil {
			continue
		}
		metadata.Authors = append(metadata.Authors, name)
	}

	return metadata, nil
}

func (c *Client) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}
	key := strings.TrimPrefix(authorKey, "/authors/")
	authorURL := fmt.Sprintf("%s/authors/%s.json", c.baseURL, url.PathEscape(key))

	var resp authorResponse
	if err := c.get(ctx, authorURL, &resp); err != nil {
		return "", err
	}
	return resp.Name, nil
}

// get performs a rate-limited GET with retries on 429 and 5xx responses.
func (c *Client) get(ctx context.Context, requestURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			err = json.NewDecoder(resp.Body).Decode(target)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// descriptionString normalizes the description field, which OpenLibrary
// returns either as a string or as {"type": ..., "value": ...}.
func descriptionString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if val, ok := v["value"].(string); ok {
			return val
		}
	}
	return ""
}

// olidFromKey extracts "OL...W" from keys like "/works/OL...W".
func olidFromKey(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// coverURLByID builds a medium-size cover URL from a cover ID.
func coverURLByID(coverID int) string {
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-M.jpg", coverID)
}

var yearPattern = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

// extractYear pulls a four-digit year out of a free-form publish date.
func extractYear(date string) int {
	match := yearPattern.FindString(date)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}
