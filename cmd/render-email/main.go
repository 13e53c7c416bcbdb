// Command render-email prints the HTML email of a stored invoice to stdout so
// the template can be previewed without sending anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/diewo77/invoicer/internal/billing"
	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/view"
)

func main() {
	id := flag.Uint("id", 0, "invoice id to render")
	lang := flag.String("lang", "en", "language (en or fr)")
	flag.Parse()
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "usage: render-email -id <invoice id> [-lang fr]")
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	conn, err := db.Open(ctx, cfg.Database, logger.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "db error: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = db.Close(conn) }()

	inv, err := services.NewInvoiceService(conn).Get(ctx, *id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invoice %d: %v\n", *id, err)
		os.Exit(3)
	}

	// Rendering only needs a request for the language lookup.
	req := &http.Request{Header: http.Header{}, URL: &url.URL{Path: "/"}}
	renderer := view.New(view.Options{
		Dir:  cfg.App.TemplatesDir,
		Lang: func(*http.Request) string { return *lang },
	})
	html, err := renderer.RenderString(req, "email/invoice.html", map[string]any{
		"View":    billing.NewInvoiceView(inv, cfg.Invoice.TaxRate),
		"Company": cfg.App.CompanyName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render error: %v\n", err)
		os.Exit(3)
	}
	fmt.Print(html)
}
