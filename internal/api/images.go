package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// FetchThumbnail downloads one thumbnail with the shared processing
// parameters merged into the URL's query.
func (c *Client) FetchThumbnail(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, c.images, rawURL, params)
	if err != nil {
		return nil, transportError("fetch thumbnail", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError("fetch thumbnail", resp.StatusCode)
	}
	return readImage("fetch thumbnail", resp.Body)
}

// RegisterDownload tells the API a full download is about to happen. Only a
// 200 counts as registered.
func (c *Client) RegisterDownload(ctx context.Context, downloadLocation string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, c.api, downloadLocation, nil)
	if err != nil {
		return transportError("register download", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError("register download", resp.StatusCode)
	}
	return nil
}

// FetchFull downloads the full-resolution image.
func (c *Client) FetchFull(ctx context.Context, fullURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, c.api, fullURL, nil)
	if err != nil {
		return nil, transportError("fetch full image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("fetch full image", resp.StatusCode)
	}
	return readImage("fetch full image", resp.Body)
}

func readImage(op string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, transportError(op, fmt.Errorf("read body: %w", err))
	}
	if len(data) > maxImageBytes {
		return nil, transportError(op, fmt.Errorf("image exceeds %d bytes", maxImageBytes))
	}
	return data, nil
}
