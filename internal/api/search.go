package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/altinukshini/imgsearch-tui/internal/model"
)

// Search issues one paginated search request. A nil error always comes with
// a non-nil result; any failure is an *Error classified by Kind.
func (c *Client) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	key := req.CacheKey()
	if c.pagesOn {
		if v, ok := c.pages.Get(key); ok {
			if res, ok := v.(*model.SearchResult); ok {
				// No request was made, so the rate limit keeps its last value.
				c.logger.Debug("search page cache hit", "query", req.Query, "page", req.Page)
				return res, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, c.api, c.baseURL+"/search", req.Values())
	if err != nil {
		return nil, transportError("search", err)
	}
	defer resp.Body.Close()
	c.recordRateLimit(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("search", resp.StatusCode)
	}

	var body model.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, transportError("decode search response", err)
	}
	res := body.ToResult(c.baseURL)

	if c.pagesOn {
		c.pages.Set(key, res)
	}
	return res, nil
}
