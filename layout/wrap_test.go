package layout

import (
	"math"
	"strings"
	"testing"
)

// runeMeasurer gives every rune the same advance, independent of the font.
type runeMeasurer struct{ advance float64 }

func (m runeMeasurer) TextWidth(text string, _ Font) float64 {
	return float64(len([]rune(text))) * m.advance
}

var body = Font{Family: BodyFamily, Style: StyleRegular, Size: 10}

func TestWrapTextRespectsWidth(t *testing.T) {
	m := runeMeasurer{advance: 2}
	text := strings.Repeat("asbestos removal area ", 30)
	for _, width := range []float64{20, 57.5, 120, 174} {
		for ln := range Lines(text, width, body, m) {
			if ln.Width > width && strings.Contains(ln.Content, " ") {
				t.Fatalf("width %g: line %q is %g wide", width, ln.Content, ln.Width)
			}
			if ln.Width != m.TextWidth(ln.Content, body) {
				t.Fatalf("line width not measured: %+v", ln)
			}
		}
	}
}

func TestWrapTextGreedy(t *testing.T) {
	lines := WrapText("aaaa bbbb cccc dddd", 20, body, runeMeasurer{advance: 2})
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Content != "aaaa bbbb" || lines[1].Content != "cccc dddd" {
		t.Fatalf("unexpected split: %+v", lines)
	}
	if lines[0].Last || !lines[1].Last {
		t.Fatalf("only the final line is last: %+v", lines)
	}
}

func TestWrapTextOverlongWordOwnLine(t *testing.T) {
	lines := WrapText("a chrysotile-contaminated b", 10, body, runeMeasurer{advance: 1})
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %+v", lines)
	}
	if lines[1].Content != "chrysotile-contaminated" {
		t.Fatalf("overlong word should sit alone unbroken, got %q", lines[1].Content)
	}
	if lines[1].Width <= 10 {
		t.Fatalf("overlong line should report its real width, got %g", lines[1].Width)
	}
}

func TestWrapTextNewlinesAndEmpty(t *testing.T) {
	lines := WrapText("first\r\n\nthird", 100, body, runeMeasurer{advance: 1})
	if len(lines) != 3 || lines[1].Content != "" {
		t.Fatalf("newlines should start paragraphs: %+v", lines)
	}
	for _, ln := range lines {
		if !ln.Last {
			t.Fatalf("single-line paragraphs are all last lines: %+v", lines)
		}
	}
	if got := WrapText("", 100, body, runeMeasurer{advance: 1}); len(got) != 1 {
		t.Fatalf("empty text occupies one line, got %d", len(got))
	}
}

func TestWrapTextNormalises(t *testing.T) {
	// e + combining acute composes to a single rune
	lines := WrapText("cafe\u0301", 100, body, runeMeasurer{advance: 1})
	if lines[0].Content != "caf\u00e9" || lines[0].Width != 4 {
		t.Fatalf("expected NFC text, got %+v", lines[0])
	}
}

func TestLinesStopsEarly(t *testing.T) {
	n := 0
	for range Lines("a b c d e f", 1, body, runeMeasurer{advance: 1}) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iteration did not stop, n=%d", n)
	}
}

func TestJustifyLeavesLastLine(t *testing.T) {
	style := TextStyle{Font: body, Lines: Proportional(1.2), Align: AlignJustify}
	tb := composeTextBox("aaaa bb cccc dddd eeee", style, 20, runeMeasurer{advance: 2})
	if len(tb.Lines) < 2 {
		t.Fatalf("expected a wrapped paragraph, got %+v", tb.Lines)
	}
	for i, ln := range tb.Lines {
		gaps := strings.Count(ln.Content, " ")
		if ln.Last {
			if ln.Spacing != 0 {
				t.Fatalf("last line must stay ragged, got spacing %g", ln.Spacing)
			}
			continue
		}
		if gaps == 0 {
			continue
		}
		filled := ln.Width + ln.Spacing*float64(gaps)
		if math.Abs(filled-20) > 1e-9 {
			t.Fatalf("line %d fills %g, want 20", i, filled)
		}
	}
}

func TestTextHeightBothLineModes(t *testing.T) {
	m := runeMeasurer{advance: 2}
	content := "aaaa bbbb cccc dddd" // two lines at width 20

	prop := TextStyle{Font: body, Lines: Proportional(1.5)}
	if got, want := TextHeight(content, prop, 20, m), 2*10*1.5*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("proportional: got %g want %g", got, want)
	}

	fixed := TextStyle{Font: Font{Family: BodyFamily, Size: 24}, Lines: FixedPt(11)}
	if got, want := TextHeight(content, fixed, 20, m), 2*11*PtToMm; math.Abs(got-want) > 1e-9 {
		t.Fatalf("fixed: got %g want %g", got, want)
	}

	tb := composeTextBox(content, prop, 20, m)
	if math.Abs(tb.Height-float64(len(tb.Lines))*tb.LineHeight) > 1e-9 {
		t.Fatalf("box height %g != %d × %g", tb.Height, len(tb.Lines), tb.LineHeight)
	}
}

func TestParseColorAndAlign(t *testing.T) {
	cases := map[string]Color{
		"#005e84":   {R: 0, G: 94, B: 132},
		"fff":       {R: 255, G: 255, B: 255},
		"#11223344": {R: 17, G: 34, B: 51},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %+v, %v", in, got, err)
		}
	}
	if _, err := ParseColor("#12"); err == nil {
		t.Fatalf("short colour should fail")
	}
	if _, err := ParseColor("#zzzzzz"); err == nil {
		t.Fatalf("non-hex colour should fail")
	}

	if a, ok := ParseAlign("end"); !ok || a != AlignRight {
		t.Fatalf("end should map to right, got %q", a)
	}
	if a, ok := ParseAlign("Justify"); !ok || a != AlignJustify {
		t.Fatalf("justify not recognised, got %q", a)
	}
	if _, ok := ParseAlign("diagonal"); ok {
		t.Fatalf("unknown alignment accepted")
	}
}
