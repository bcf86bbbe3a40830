// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"strings"
	"testing"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, &fakeErr{name}
			}
			return []byte(s), nil
		},
	}
}

type fakeErr struct{ name string }

func (e *fakeErr) Error() string { return "not found: " + e.name }

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": "(def false 42)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "syntax-error: expected symbol, got: false",
		Spans: []Span{
			{File: "test.lsp", Line: 1, Col: 6, EndCol: 10, Label: "def target must be a symbol"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()

	// Verify key structural elements
	assertContains(t, got, "error: syntax-error: expected symbol, got: false")
	assertContains(t, got, "--> test.lsp:1:6")
	assertContains(t, got, " 1 |  (def false 42)")
	assertContains(t, got, "   |       ^^^^^ def target must be a symbol")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": "(def x 1)\n(def x 2)",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "x is defined twice",
		Spans: []Span{
			{File: "test.lsp", Line: 2, Col: 1, EndCol: 9},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "warning: x is defined twice")
	assertContains(t, got, "--> test.lsp:2:1")
	assertContains(t, got, "(def x 2)")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: some error")
	assertContains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assertContains(t, got, "|")
	assertNotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": "(my-fn 1 2)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "unbound-symbol: my-fn",
		Spans: []Span{
			{File: "test.lsp", Line: 1, Col: 2, EndCol: 6},
		},
		Notes: []string{
			"in caller at test.lsp:1:1",
			"in main at main.lsp:10:5",
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "= note: in caller at test.lsp:1:1")
	assertContains(t, got, "= note: in main at main.lsp:10:5")
}

func TestRenderAutoDetectEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": "(defn true () 42)",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "syntax-error: expected symbol, got: true",
		Spans: []Span{
			{File: "test.lsp", Line: 1, Col: 7}, // EndCol=0 → auto-detect
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// "true" starts at col 7 and is 4 chars
	assertContains(t, got, "      ^^^^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": "(def x 1)\n(def x 2)\n(if true)",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityWarning,
			Message:  "x is defined twice",
			Spans:    []Span{{File: "test.lsp", Line: 2, Col: 1, EndCol: 9}},
		},
		{
			Severity: SeverityError,
			Message:  "syntax-error: if expects 3 parts, got 1",
			Spans:    []Span{{File: "test.lsp", Line: 3, Col: 1, EndCol: 9}},
		},
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, diags); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	// Should have both diagnostics separated by blank line
	parts := strings.Split(got, "\n\n")
	if len(parts) < 2 {
		t.Errorf("expected diagnostics separated by blank line, got:\n%s", got)
	}
	assertContains(t, got, "x is defined twice")
	assertContains(t, got, "if expects 3 parts, got 1")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "open missing.lsp: no such file or directory",
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	assertContains(t, got, "error: open missing.lsp: no such file or directory")
	// Should be just the header, no arrows or source
	assertNotContains(t, got, "-->")
}

func TestRenderStringEndCol(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.lsp": `(+ 1 "a \"b\"" 2)`,
	})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "type-error: not a number",
		Spans:    []Span{{File: "test.lsp", Line: 1, Col: 6}},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "     ^^^^^^^^^\n")
}

func TestRenderSources(t *testing.T) {
	r := testRenderer(nil)
	r.AddSource("<expr>", "(inc nil)")
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "type-error: not a number",
		Spans:    []Span{{File: "<expr>", Line: 1, Col: 6}},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	assertContains(t, got, " 1 |  (inc nil)")
	assertContains(t, got, "|       ^^^\n")
}

func TestRenderPath(t *testing.T) {
	r := testRenderer(map[string]string{
		"/src/lib/test.lsp": "(def)",
	})
	d := Diagnostic{
		Severity: SeverityError,
		Message:  "syntax-error: def expects 2 parts, got 0",
		Spans:    []Span{{File: "test.lsp", Path: "/src/lib/test.lsp", Line: 1, Col: 1}},
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, d); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	assertContains(t, got, "--> test.lsp:1:1")
	assertContains(t, got, "(def)")
}

func TestParseColorMode(t *testing.T) {
	for s, mode := range map[string]ColorMode{
		"":       ColorAuto,
		"auto":   ColorAuto,
		"always": ColorAlways,
		"never":  ColorNever,
	} {
		m, err := ParseColorMode(s)
		if err != nil {
			t.Errorf("%q: %v", s, err)
		}
		if m != mode {
			t.Errorf("%q: got %v", s, m)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Errorf("expected an error")
	}
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	var buf bytes.Buffer
	if err := r.Render(&buf, Diagnostic{Message: "boom"}); err != nil {
		t.Fatal(err)
	}
	assertContains(t, buf.String(), "\033[1;31m")
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("output does not contain %q:\n%s", want, got)
	}
}

func assertNotContains(t *testing.T, got, unwanted string) {
	t.Helper()
	if strings.Contains(got, unwanted) {
		t.Errorf("output unexpectedly contains %q:\n%s", unwanted, got)
	}
}
