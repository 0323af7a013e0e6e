// Package browser snapshots an already open tab over the DevTools protocol.
// It never navigates and never changes the live page.
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/dom"
)

// snapshotScript clones the document and stamps every element that has no
// layout box in the live page, so visibility survives serialization. Live
// input values are copied onto the clone's value attribute, since an edited
// quantity only exists as a property.
const snapshotScript = `(marker) => {
	const live = document.documentElement;
	const copy = live.cloneNode(true);
	const a = live.querySelectorAll('*');
	const b = copy.querySelectorAll('*');
	for (let i = 0; i < a.length && i < b.length; i++) {
		const el = a[i];
		if (el.tagName === 'INPUT') b[i].setAttribute('value', el.value);
		if (el === document.body || el.closest('head')) continue;
		if (el.offsetParent === null && getComputedStyle(el).position !== 'fixed') {
			b[i].setAttribute(marker, '1');
		}
	}
	return copy.outerHTML;
}`

// Config holds browser configuration
type Config struct {
	DebuggerURL       string        // ws://127.0.0.1:9222/devtools/browser/...
	RenderWait        time.Duration // pause after load before sampling
	TargetURLContains string        // default tab filter
}

// Selector picks a tab. Empty fields fall back to the configured filter,
// then to the first tab.
type Selector struct {
	TargetID    string
	URLContains string
}

// pageInfo is the part of a tab used for selection
type pageInfo struct {
	TargetID string
	URL      string
}

// Client holds one DevTools connection
type Client struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewClient creates a client. The connection is opened on first use.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.DebuggerURL) == "" {
		return nil, domain.ErrBrowserNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RenderWait < 0 {
		cfg.RenderWait = 0
	}
	return &Client{cfg: cfg, logger: logger}, nil
}

// ensureConnected returns a live connection, reconnecting if the old one died
func (c *Client) ensureConnected() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		if _, err := c.browser.Version(); err == nil {
			return c.browser, nil
		}
		c.logger.Warn("stale browser connection, reconnecting")
		c.browser = nil
	}

	b := rod.New().ControlURL(c.cfg.DebuggerURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect to %s: %v", domain.ErrDocumentUnavailable, c.cfg.DebuggerURL, err)
	}
	c.browser = b
	return b, nil
}

// Snapshot waits for the selected tab to render and serializes it
func (c *Client) Snapshot(ctx context.Context, sel Selector) (domain.Document, error) {
	b, err := c.ensureConnected()
	if err != nil {
		return nil, err
	}

	pages, err := b.Pages()
	if err != nil {
		return nil, fmt.Errorf("%w: list tabs: %v", domain.ErrDocumentUnavailable, err)
	}
	infos := make([]pageInfo, len(pages))
	for i, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		infos[i] = pageInfo{TargetID: string(info.TargetID), URL: info.URL}
	}

	idx := selectPage(infos, sel, c.cfg.TargetURLContains)
	if idx < 0 {
		return nil, fmt.Errorf("%w: no matching tab", domain.ErrDocumentUnavailable)
	}
	page := pages[idx].Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: wait for load: %v", domain.ErrDocumentUnavailable, err)
	}
	if err := pause(ctx, c.cfg.RenderWait); err != nil {
		return nil, err
	}

	obj, err := page.Eval(snapshotScript, dom.HiddenMarker)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", domain.ErrDocumentUnavailable, err)
	}

	c.logger.Debug("tab snapshot taken",
		zap.String("target", infos[idx].TargetID),
		zap.String("url", infos[idx].URL),
	)
	return dom.ParseString(obj.Value.Str(), infos[idx].URL)
}

// selectPage returns the index of the tab to read, or -1
func selectPage(pages []pageInfo, sel Selector, defaultContains string) int {
	if sel.TargetID != "" {
		for i, p := range pages {
			if p.TargetID == sel.TargetID {
				return i
			}
		}
		return -1
	}
	for _, filter := range []string{sel.URLContains, defaultContains} {
		if filter == "" {
			continue
		}
		for i, p := range pages {
			if strings.Contains(p.URL, filter) {
				return i
			}
		}
		return -1
	}
	if len(pages) == 0 {
		return -1
	}
	return 0
}

// pause sleeps for d unless ctx ends first
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, ctx.Err())
	case <-t.C:
		return nil
	}
}

// Source adapts a Client and tab selector to domain.DocumentSource
type Source struct {
	Client   *Client
	Selector Selector
}

var _ domain.DocumentSource = Source{}

// Snapshot reads the selected tab
func (s Source) Snapshot(ctx context.Context) (domain.Document, error) {
	if s.Client == nil {
		return nil, domain.ErrBrowserNotConfigured
	}
	return s.Client.Snapshot(ctx, s.Selector)
}

// Source returns a document source for the tab a live request selects
func (c *Client) Source(req domain.LiveExtractRequest) domain.DocumentSource {
	return Source{Client: c, Selector: Selector{TargetID: req.TargetID, URLContains: req.URLContains}}
}
