package model

import "strings"

// Photo is a single entry of the search endpoint's "results" array.
type Photo struct {
	ID             string     `json:"id"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Description    string     `json:"description"`
	AltDescription string     `json:"alt_description"`
	URLs           PhotoURLs  `json:"urls"`
	Links          PhotoLinks `json:"links"`
	User           User       `json:"user"`
}

type PhotoURLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type PhotoLinks struct {
	Self             string `json:"self"`
	HTML             string `json:"html"`
	Download         string `json:"download"`
	DownloadLocation string `json:"download_location"`
}

type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Links    UserLinks `json:"links"`
}

type UserLinks struct {
	Self string `json:"self"`
	HTML string `json:"html"`
}

// SearchResponse is the body of a successful search call.
type SearchResponse struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// UpstreamAPIBase is the host the proxy forwards to. Download locations in
// search responses point at it and must be rewritten onto the proxy.
const UpstreamAPIBase = "https://api.unsplash.com"

// ToResult flattens the wire response. proxyBase replaces UpstreamAPIBase in
// download-location URLs; pass "" to keep them as returned.
func (r SearchResponse) ToResult(proxyBase string) *SearchResult {
	res := &SearchResult{
		TotalPages: r.TotalPages,
		Items:      make([]ImageResult, 0, len(r.Results)),
	}
	if res.TotalPages < 0 {
		res.TotalPages = 0
	}
	for _, p := range r.Results {
		res.Items = append(res.Items, p.ToImageResult(proxyBase))
	}
	return res
}

func (p Photo) ToImageResult(proxyBase string) ImageResult {
	loc := p.Links.DownloadLocation
	if proxyBase != "" && strings.HasPrefix(loc, UpstreamAPIBase) {
		loc = strings.TrimSuffix(proxyBase, "/") + strings.TrimPrefix(loc, UpstreamAPIBase)
	}
	desc := p.Description
	if desc == "" {
		desc = p.AltDescription
	}
	return ImageResult{
		ID:                  p.ID,
		ThumbnailURL:        p.URLs.Raw,
		FullURL:             p.URLs.Full,
		DownloadLocationURL: loc,
		Description:         desc,
		Author:              p.User.Name,
		AuthorURL:           p.User.Links.HTML,
		HTMLURL:             p.Links.HTML,
		Width:               p.Width,
		Height:              p.Height,
	}
}
