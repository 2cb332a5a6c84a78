package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/fortuna/gridiron/internal/logger"
)

// minRenderInterval spaces out headless fetches so the provider does not
// rate-limit us during a busy pass.
const minRenderInterval = 2 * time.Second

// Renderer drives a headless browser for pages that require JS execution
// before their stat markup exists.
type Renderer struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewRenderer starts a shared headless browser allocator.
func NewRenderer() *Renderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		interval: minRenderInterval,
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases browser resources.
func (r *Renderer) Close() {
	if r.cancel != nil {
		r.cancel()
	}
}

// Render navigates to a URL and returns the post-JS HTML. Requests are
// serialized and spaced by the render interval.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.lastRequest.IsZero() {
		if elapsed := time.Since(r.lastRequest); elapsed < r.interval {
			wait := r.interval - elapsed
			logger.Get().WithField("wait", wait.String()).Debug("rate limiting rendered fetch")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	html, err := r.render(ctx, url)
	r.lastRequest = time.Now()
	return html, err
}

func (r *Renderer) render(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var dcancel context.CancelFunc
		browserCtx, dcancel = context.WithDeadline(browserCtx, deadline)
		defer dcancel()
	}

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // let JS populate the stat tables
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendered fetch of %s: %w", url, err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("rendered fetch of %s returned empty document", url)
	}
	return htmlContent, nil
}
