package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"

	"github.com/chromedp/chromedp"
)

var sizeRe = regexp.MustCompile(`<svg[^>]*\swidth="([0-9.]+)"[^>]*\sheight="([0-9.]+)"`)

// ToPNG rasterizes SVG bytes with headless Chrome. A scale of 2.0 produces
// a 2x resolution image.
//
// Requires a Chrome or Chromium binary on PATH.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	w, h := svgSize(svg)

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browser, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	var out []byte
	err := chromedp.Run(browser,
		chromedp.EmulateViewport(w, h, chromedp.EmulateScale(scale)),
		chromedp.Navigate(uri),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &out, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome screenshot: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chrome screenshot: empty image")
	}
	return out, nil
}

// svgSize reads the pixel size of the root svg element, defaulting to
// 800x600 when it carries none.
func svgSize(svg []byte) (int64, int64) {
	m := sizeRe.FindSubmatch(svg)
	if m == nil {
		return 800, 600
	}
	w, _ := strconv.ParseFloat(string(m[1]), 64)
	h, _ := strconv.ParseFloat(string(m[2]), 64)
	if w <= 0 || h <= 0 {
		return 800, 600
	}
	return int64(w), int64(h)
}
