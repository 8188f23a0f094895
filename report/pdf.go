package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"kamap-housing/utils"
)

// PDFRenderer prints the HTML report to PDF through headless Chrome.
type PDFRenderer struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewPDFRenderer creates a renderer. An empty chromeBin searches the usual
// install locations.
func NewPDFRenderer(chromeBin string, logger *utils.Logger) *PDFRenderer {
	if logger == nil {
		logger = utils.NewLogger()
	}
	return &PDFRenderer{chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

// WriteReport renders d and writes the PDF to path.
func (p *PDFRenderer) WriteReport(ctx context.Context, path string, d Data) error {
	var html bytes.Buffer
	if err := RenderHTML(&html, d); err != nil {
		return err
	}

	pdf, err := p.Print(ctx, html.String())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}
	p.logger.Info("[report] Wrote %s (%d bytes)", path, len(pdf))
	return nil
}

// Print loads html into a blank tab and returns it printed as Letter PDF.
func (p *PDFRenderer) Print(ctx context.Context, html string) ([]byte, error) {
	chromeBin := findChromeBinary(p.chromeBin)
	p.logger.Debug("[report] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("report: print pdf: %w", err)
	}
	return pdf, nil
}

// findChromeBinary locates Chrome/Chromium, preferring an explicit path.
func findChromeBinary(override string) string {
	if override != "" {
		return override
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
