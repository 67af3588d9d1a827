package renderer

import "github.com/ByLCY/clearcert/layout"

// Renderer turns a layout result into a final document such as a PDF.
// Render returns the encoded bytes.
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
