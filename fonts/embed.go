package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Built-in face names, usable as "embed:<name>" font sources.
const (
	Regular    = "Go-Regular.ttf"
	Bold       = "Go-Bold.ttf"
	Italic     = "Go-Italic.ttf"
	BoldItalic = "Go-BoldItalic.ttf"
	Mono       = "Go-Mono.ttf"
)

var builtin = map[string][]byte{
	Regular:    goregular.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
}

// Load returns the bytes of a built-in face. path may be written as
// "embed:Go-Regular.ttf" or just "Go-Regular.ttf".
// The returned slice is shared and must not be modified.
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	data, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("built-in font %s not found", name)
	}
	return data, nil
}

// Names lists the built-in faces.
func Names() []string {
	return []string{Regular, Bold, Italic, BoldItalic, Mono}
}
