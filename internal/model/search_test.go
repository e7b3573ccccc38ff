package model

import (
	"encoding/json"
	"testing"
)

func TestSearchRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr bool
	}{
		{name: "valid", req: SearchRequest{Query: "sunset", Page: 1, PerPage: 30}},
		{name: "empty query", req: SearchRequest{Page: 1, PerPage: 10}, wantErr: true},
		{name: "page zero", req: SearchRequest{Query: "a", Page: 0, PerPage: 10}, wantErr: true},
		{name: "per page too small", req: SearchRequest{Query: "a", Page: 1, PerPage: 4}, wantErr: true},
		{name: "per page too large", req: SearchRequest{Query: "a", Page: 1, PerPage: 31}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchRequestValues(t *testing.T) {
	req := SearchRequest{Query: "red fox", Page: 2, PerPage: 5}
	got := req.Values().Encode()
	want := "page=2&per_page=5&query=red+fox"
	if got != want {
		t.Errorf("Values() = %q, want %q", got, want)
	}
}

const sampleResponse = `{
  "total": 2,
  "total_pages": 7,
  "results": [
    {
      "id": "abc",
      "width": 4000,
      "height": 3000,
      "description": "",
      "alt_description": "orange sky",
      "urls": {"raw": "https://images.example/raw-abc", "full": "https://images.example/full-abc"},
      "links": {"html": "https://unsplash.com/photos/abc", "download_location": "https://api.unsplash.com/photos/abc/download?ixid=1"},
      "user": {"name": "Jane Doe", "links": {"html": "https://unsplash.com/@jane"}}
    }
  ]
}`

func TestSearchResponseToResult(t *testing.T) {
	var resp SearchResponse
	if err := json.Unmarshal([]byte(sampleResponse), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	res := resp.ToResult("https://proxy.example/api/unsplash/")
	if res.TotalPages != 7 {
		t.Errorf("TotalPages = %d, want 7", res.TotalPages)
	}
	if len(res.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(res.Items))
	}
	img := res.Items[0]
	if img.DownloadLocationURL != "https://proxy.example/api/unsplash/photos/abc/download?ixid=1" {
		t.Errorf("DownloadLocationURL = %q", img.DownloadLocationURL)
	}
	if img.ThumbnailURL != "https://images.example/raw-abc" || img.FullURL != "https://images.example/full-abc" {
		t.Errorf("unexpected urls: %+v", img)
	}
	if img.Description != "orange sky" {
		t.Errorf("Description = %q, want alt description fallback", img.Description)
	}
	if img.Author != "Jane Doe" {
		t.Errorf("Author = %q", img.Author)
	}
}

func TestToResultKeepsForeignDownloadLocation(t *testing.T) {
	p := Photo{Links: PhotoLinks{DownloadLocation: "https://elsewhere.example/dl"}}
	img := p.ToImageResult("https://proxy.example")
	if img.DownloadLocationURL != "https://elsewhere.example/dl" {
		t.Errorf("DownloadLocationURL = %q", img.DownloadLocationURL)
	}
}

func TestReferralURL(t *testing.T) {
	img := ImageResult{AuthorURL: "https://unsplash.com/@jane"}
	got := img.ReferralURL("imgsearch_tui")
	want := "https://unsplash.com/@jane?utm_medium=referral&utm_source=imgsearch_tui"
	if got != want {
		t.Errorf("ReferralURL() = %q, want %q", got, want)
	}
	if (ImageResult{}).ReferralURL("x") != "" {
		t.Error("expected empty referral url without author link")
	}
}

func TestFetchOutcome(t *testing.T) {
	ok := Success(ImageResult{ID: "1"}, []byte{1})
	if !ok.OK() {
		t.Error("Success outcome should be OK")
	}
	bad := Failure(ImageResult{ID: "2"}, nil)
	if bad.OK() {
		t.Error("Failure outcome with nil reason should still be a failure")
	}

	out := SearchOutcome{Outcomes: []FetchOutcome{ok, bad, ok}, Failed: 1}
	if out.Delivered() != 2 {
		t.Errorf("Delivered() = %d, want 2", out.Delivered())
	}
}
