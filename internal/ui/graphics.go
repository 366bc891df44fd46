package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/qeesung/image2ascii/convert"
)

// imageFetchClient downloads mood-board images. Kept separate from the API
// client: image hosts are third-party CDNs.
var imageFetchClient = &http.Client{Timeout: 10 * time.Second}

// FetchImage downloads and decodes one image.
func FetchImage(url string) (image.Image, error) {
	resp, err := imageFetchClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image fetch failed: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	return img, nil
}

// RenderVibeImage converts a mood-board image to colored ASCII art sized for
// the vibe board pane.
func RenderVibeImage(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true // Use ANSI colors
	opts.Ratio = 0.5    // Adjust for terminal character aspect ratio

	return converter.Image2ASCIIString(img, &opts)
}
