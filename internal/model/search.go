package model

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	MinPerPage     = 5
	MaxPerPage     = 30
	DefaultPerPage = 30
)

type SearchRequest struct {
	Query   string
	Page    int
	PerPage int
}

func (r SearchRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query is required")
	}
	if r.Page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", r.Page)
	}
	if r.PerPage < MinPerPage || r.PerPage > MaxPerPage {
		return fmt.Errorf("per page must be in [%d, %d], got %d", MinPerPage, MaxPerPage, r.PerPage)
	}
	return nil
}

func (r SearchRequest) Values() url.Values {
	v := url.Values{}
	v.Set("query", r.Query)
	v.Set("page", strconv.Itoa(r.Page))
	v.Set("per_page", strconv.Itoa(r.PerPage))
	return v
}

// CacheKey identifies the request for the search page cache.
func (r SearchRequest) CacheKey() string {
	return r.Values().Encode()
}

type SearchResult struct {
	TotalPages int
	Items      []ImageResult
}

// ImageResult is read-only after parsing.
type ImageResult struct {
	ID                  string
	ThumbnailURL        string
	FullURL             string
	DownloadLocationURL string
	Description         string
	Author              string
	AuthorURL           string
	HTMLURL             string
	Width               int
	Height              int
}

// ReferralURL returns the author's profile link tagged as required by the
// API guidelines.
func (i ImageResult) ReferralURL(source string) string {
	if i.AuthorURL == "" {
		return ""
	}
	u, err := url.Parse(i.AuthorURL)
	if err != nil {
		return i.AuthorURL
	}
	q := u.Query()
	q.Set("utm_source", source)
	q.Set("utm_medium", "referral")
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchOutcome is the result of one thumbnail fetch: either Bytes is set and
// Reason is nil, or Reason describes the failure.
type FetchOutcome struct {
	Image  ImageResult
	Bytes  []byte
	Reason error
}

func Success(img ImageResult, data []byte) FetchOutcome {
	return FetchOutcome{Image: img, Bytes: data}
}

func Failure(img ImageResult, reason error) FetchOutcome {
	if reason == nil {
		reason = fmt.Errorf("unknown failure")
	}
	return FetchOutcome{Image: img, Reason: reason}
}

func (o FetchOutcome) OK() bool {
	return o.Reason == nil
}

// SearchOutcome aggregates one search invocation. Failed is only meaningful
// once Complete is true.
type SearchOutcome struct {
	Request  SearchRequest
	Result   *SearchResult
	Outcomes []FetchOutcome
	Failed   int
	Complete bool
}

func (o SearchOutcome) Delivered() int {
	return len(o.Outcomes) - o.Failed
}

// DownloadSession lives from a tile selection until the full image is
// delivered or the attempt fails.
type DownloadSession struct {
	FullURL             string
	DownloadLocationURL string
	Image               ImageResult
}

func NewDownloadSession(img ImageResult) DownloadSession {
	return DownloadSession{
		FullURL:             img.FullURL,
		DownloadLocationURL: img.DownloadLocationURL,
		Image:               img,
	}
}
