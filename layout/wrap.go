package layout

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Lines wraps text into lines no wider than maxWidth using greedy word fill.
// Explicit newlines start a new paragraph; a single word wider than
// maxWidth is kept whole on a line of its own. The sequence is finite and
// may be ranged over any number of times.
func Lines(text string, maxWidth float64, font Font, m Measurer) iter.Seq[TextLine] {
	return func(yield func(TextLine) bool) {
		text = norm.NFC.String(strings.ReplaceAll(text, "\r\n", "\n"))
		for _, para := range strings.Split(text, "\n") {
			if !wrapParagraph(para, maxWidth, font, m, yield) {
				return
			}
		}
	}
}

// WrapText collects Lines into a slice.
func WrapText(text string, maxWidth float64, font Font, m Measurer) []TextLine {
	return slices.Collect(Lines(text, maxWidth, font, m))
}

func wrapParagraph(para string, maxWidth float64, font Font, m Measurer, yield func(TextLine) bool) bool {
	words := strings.Fields(para)
	if len(words) == 0 {
		return yield(TextLine{Last: true})
	}
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if maxWidth <= 0 || m.TextWidth(candidate, font) <= maxWidth {
			line = candidate
			continue
		}
		if !yield(TextLine{Content: line, Width: m.TextWidth(line, font)}) {
			return false
		}
		line = word
	}
	return yield(TextLine{Content: line, Width: m.TextWidth(line, font), Last: true})
}

// justify spreads the free width of every non-final line evenly across its
// inter-word gaps.
func justify(lines []TextLine, width float64) {
	for i := range lines {
		ln := &lines[i]
		if ln.Last {
			continue
		}
		gaps := strings.Count(ln.Content, " ")
		if gaps == 0 || ln.Width >= width {
			continue
		}
		ln.Spacing = (width - ln.Width) / float64(gaps)
	}
}

// composeTextBox wraps content into a box of the given width. X and Y are
// left for the caller.
func composeTextBox(content string, style TextStyle, width float64, m Measurer) TextBox {
	lines := WrapText(content, width, style.Font, m)
	if style.Align == AlignJustify {
		justify(lines, width)
	}
	lineHeight := style.Lines.LineHeight(style.Font)
	return TextBox{
		Content:    content,
		Width:      width,
		LineHeight: lineHeight,
		Font:       style.Font,
		Color:      style.Color,
		Lines:      lines,
		Height:     float64(len(lines)) * lineHeight,
		Align:      style.Align,
	}
}

// TextHeight returns the height of content wrapped to width: line count × line height.
func TextHeight(content string, style TextStyle, width float64, m Measurer) float64 {
	n := 0
	for range Lines(content, width, style.Font, m) {
		n++
	}
	return float64(n) * style.Lines.LineHeight(style.Font)
}
