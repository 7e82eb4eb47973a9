package compositor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

const defaultIdleWait = 2 * time.Second

// ChromeOption customises the Chrome compositor.
type ChromeOption func(*Chrome)

// WithBrowserBin points at a Chrome/Chromium binary instead of the managed
// download.
func WithBrowserBin(path string) ChromeOption {
	return func(c *Chrome) {
		c.bin = strings.TrimSpace(path)
	}
}

// WithComposeTimeout bounds a single Compose call. Zero disables the limit.
func WithComposeTimeout(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		c.timeout = d
	}
}

// WithIdleWait sets how long to wait for the page to go idle before printing.
func WithIdleWait(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		c.idleWait = d
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(logger *slog.Logger) ChromeOption {
	return func(c *Chrome) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Chrome prints documents through a headless Chrome instance. Every Compose
// call launches and tears down its own browser, so concurrent calls do not
// share state.
type Chrome struct {
	bin      string
	timeout  time.Duration
	idleWait time.Duration
	logger   *slog.Logger
}

var _ Compositor = (*Chrome)(nil)

// NewChrome builds a Chrome compositor.
func NewChrome(options ...ChromeOption) *Chrome {
	c := &Chrome{
		idleWait: defaultIdleWait,
		logger:   slog.Default().With("component", "compositor"),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Compose loads markup into a fresh page and prints it to PDF.
func (c *Chrome) Compose(ctx context.Context, markup string, layout Layout) ([]byte, error) {
	req, err := PrintRequest(layout)
	if err != nil {
		return nil, engineErr("layout", err)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	l := launcher.New().Context(ctx).Headless(true).NoSandbox(true)
	if c.bin != "" {
		l = l.Bin(c.bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, engineErr("launch", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, engineErr("connect", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			c.logger.Warn("close browser", "error", err)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, engineErr("open page", err)
	}
	if err := page.SetDocumentContent(markup); err != nil {
		return nil, engineErr("load markup", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, engineErr("wait load", err)
	}
	if c.idleWait > 0 {
		if err := page.WaitIdle(c.idleWait); err != nil {
			c.logger.Debug("page did not go idle", "error", err)
		}
	}

	stream, err := page.PDF(req)
	if err != nil {
		return nil, engineErr("print", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, engineErr("read pdf", err)
	}
	return data, nil
}

// PrintRequest converts a Layout into the Chrome print parameters.
func PrintRequest(layout Layout) (*proto.PagePrintToPDF, error) {
	top, err := Inches(layout.Margins.Top)
	if err != nil {
		return nil, err
	}
	right, err := Inches(layout.Margins.Right)
	if err != nil {
		return nil, err
	}
	bottom, err := Inches(layout.Margins.Bottom)
	if err != nil {
		return nil, err
	}
	left, err := Inches(layout.Margins.Left)
	if err != nil {
		return nil, err
	}

	req := &proto.PagePrintToPDF{
		PrintBackground:     layout.PrintBackground,
		PaperWidth:          gson.Num(A4Width),
		PaperHeight:         gson.Num(A4Height),
		MarginTop:           gson.Num(top),
		MarginRight:         gson.Num(right),
		MarginBottom:        gson.Num(bottom),
		MarginLeft:          gson.Num(left),
		DisplayHeaderFooter: layout.DisplayHeaderFooter(),
	}
	if req.DisplayHeaderFooter {
		// Chrome prints its default date/title band when one side is empty.
		req.HeaderTemplate = orEmptyBand(layout.HeaderTemplate)
		req.FooterTemplate = orEmptyBand(layout.FooterTemplate)
	}
	return req, nil
}

func orEmptyBand(tpl string) string {
	if strings.TrimSpace(tpl) == "" {
		return "<span></span>"
	}
	return tpl
}
