package services

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/microcosm-cc/bluemonday"
)

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns the Texas court defaults: letter paper with
// one-inch margins.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "letter",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// FilingCaption holds the court caption printed above a filed document.
type FilingCaption struct {
	CaseNumber    string
	CourtName     string
	PlaintiffName string
	DefendantName string
}

var contentPolicy = bluemonday.UGCPolicy()

// RenderDocumentHTML turns generated document text into caption-headed,
// court-styled HTML. Model output is untrusted: any markup in it is
// sanitized, plain prose is escaped and split into paragraphs.
func RenderDocumentHTML(content string, caption FilingCaption) string {
	var b strings.Builder

	if caption.CaseNumber != "" {
		fmt.Fprintf(&b, "<h1>Case No. %s</h1>\n", html.EscapeString(caption.CaseNumber))
	}
	courtName := caption.CourtName
	if courtName == "" {
		courtName = "DISTRICT COURT"
	}
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(courtName))

	plaintiff := caption.PlaintiffName
	if plaintiff == "" {
		plaintiff = "PLAINTIFF"
	}
	defendant := caption.DefendantName
	if defendant == "" {
		defendant = "DEFENDANT"
	}
	fmt.Fprintf(&b, "<p>%s,<br>Plaintiff,<br>v.<br>%s,<br>Defendant.</p>\n",
		html.EscapeString(plaintiff), html.EscapeString(defendant))

	if strings.Contains(content, "<") {
		b.WriteString(contentPolicy.Sanitize(content))
	} else {
		for _, para := range strings.Split(content, "\n\n") {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}
			fmt.Fprintf(&b, "<p>%s</p>\n",
				strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		}
	}

	fmt.Fprintf(&b, `<div class="signature-block">
<p>Respectfully submitted,</p>
<div class="signature-line">%s<br>Pro Se</div>
</div>`, html.EscapeString(plaintiff))

	return wrapLegalHTML(b.String())
}

// GeneratePDF renders HTML content to PDF using headless Chrome.
func GeneratePDF(htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// CHROME_PATH points at headless-shell in containers
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	paperWidth, paperHeight := paperDimensions(options)

	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.Sleep(100 * time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfBuf, nil
}

func paperDimensions(options PDFOptions) (width, height float64) {
	switch options.PageSize {
	case "legal":
		width, height = 8.5, 14.0
	case "A4":
		width, height = 8.27, 11.69
	default: // letter
		width, height = 8.5, 11.0
	}
	if options.PageOrientation == "landscape" {
		width, height = height, width
	}
	return width, height
}

// wrapLegalHTML wraps rendered content with the court document stylesheet:
// Times 12pt, 1.5 line spacing, justified text.
func wrapLegalHTML(content string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            margin: 1in;
        }
        body {
            font-family: "Times New Roman", Times, serif;
            font-size: 12pt;
            line-height: 1.5;
            color: #000;
            text-align: justify;
        }
        h1 {
            font-size: 14pt;
            font-weight: bold;
            text-align: center;
            margin-bottom: 12pt;
        }
        h2 {
            font-size: 12pt;
            font-weight: bold;
            margin-top: 18pt;
            margin-bottom: 12pt;
        }
        p {
            margin-bottom: 12pt;
        }
        ul, ol {
            margin-left: 0.5in;
            margin-bottom: 12pt;
        }
        .signature-block {
            margin-top: 48pt;
        }
        .signature-line {
            border-top: 1px solid #000;
            width: 3in;
            margin-top: 36pt;
            padding-top: 6pt;
        }
    </style>
</head>
<body>
` + content + `
</body>
</html>`
}
