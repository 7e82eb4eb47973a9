package compositor

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"testing"
	"time"
)

func TestInches(t *testing.T) {
	cases := map[string]float64{
		"":       0,
		"96px":   1,
		"2.54cm": 1,
		"25.4mm": 1,
		"0.5in":  0.5,
		"72pt":   1,
		"48":     0.5,
	}
	for in, want := range cases {
		got, err := Inches(in)
		if err != nil {
			t.Fatalf("Inches(%q): %v", in, err)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Inches(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := Inches("wide"); err == nil {
		t.Fatalf("expected error for invalid length")
	}
}

func TestPrintRequest(t *testing.T) {
	layout := Layout{
		Margins:         Margins{Top: "200px", Bottom: "80px"},
		HeaderTemplate:  "<div>logo</div>",
		PrintBackground: true,
	}
	req, err := PrintRequest(layout)
	if err != nil {
		t.Fatalf("print request: %v", err)
	}
	if !req.DisplayHeaderFooter || !req.PrintBackground {
		t.Fatalf("expected header/footer and background: %+v", req)
	}
	if req.FooterTemplate != "<span></span>" {
		t.Fatalf("expected blank footer band, got %q", req.FooterTemplate)
	}
	if got := *req.MarginTop; math.Abs(got-200.0/96) > 1e-9 {
		t.Fatalf("margin top = %v", got)
	}
	if got := *req.MarginLeft; got != 0 {
		t.Fatalf("margin left = %v", got)
	}
	if *req.PaperWidth != A4Width || *req.PaperHeight != A4Height {
		t.Fatalf("unexpected paper size %vx%v", *req.PaperWidth, *req.PaperHeight)
	}
}

func TestPrintRequest_NoBands(t *testing.T) {
	req, err := PrintRequest(Layout{Margins: Uniform("1cm")})
	if err != nil {
		t.Fatalf("print request: %v", err)
	}
	if req.DisplayHeaderFooter || req.HeaderTemplate != "" || req.FooterTemplate != "" {
		t.Fatalf("expected no header/footer: %+v", req)
	}
}

func TestChrome_InvalidLayout(t *testing.T) {
	_, err := NewChrome().Compose(context.Background(), "<p>x</p>", Layout{Margins: Margins{Top: "??"}})
	if !errors.Is(err, ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
	var engineErr *EngineError
	if !errors.As(err, &engineErr) || engineErr.Step != "layout" {
		t.Fatalf("expected layout step error, got %#v", err)
	}
}

func TestChrome_Compose(t *testing.T) {
	if os.Getenv("LEGALDOCS_CHROME_TESTS") == "" {
		t.Skip("set LEGALDOCS_CHROME_TESTS=1 to run headless Chrome tests")
	}
	c := NewChrome(WithComposeTimeout(time.Minute), WithBrowserBin(os.Getenv("LEGALDOCS_CHROME_BIN")))
	pdf, err := c.Compose(context.Background(), "<html><body><h1>Olá</h1></body></html>", DefaultLayout())
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf output, got %q", pdf[:min(len(pdf), 16)])
	}
}
