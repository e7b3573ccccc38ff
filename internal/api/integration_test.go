package api

import (
	"context"
	"os"
	"testing"

	"github.com/altinukshini/imgsearch-tui/internal/config"
	"github.com/altinukshini/imgsearch-tui/internal/model"
)

func TestIntegrationSearch(t *testing.T) {
	if os.Getenv("IMGSEARCH_INTEGRATION") == "" {
		t.Skip("Set IMGSEARCH_INTEGRATION=1 to run integration tests")
	}

	cfg := config.Default()
	cfg.ThumbnailCache = false
	client, err := NewClient(cfg, HTTPOptions{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	res, err := client.Search(context.Background(), model.SearchRequest{Query: "mountain", Page: 1, PerPage: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.TotalPages == 0 || len(res.Items) == 0 {
		t.Fatal("expected at least one result")
	}

	t.Logf("Found %d pages, got %d in page", res.TotalPages, len(res.Items))
	for _, img := range res.Items {
		t.Logf("  %s by %s", img.ID, img.Author)
	}

	data, err := client.FetchThumbnail(context.Background(), res.Items[0].ThumbnailURL, cfg.ThumbnailParams().Values())
	if err != nil {
		t.Fatalf("FetchThumbnail: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected thumbnail bytes")
	}
}
