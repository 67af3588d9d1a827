package layout

import (
	"encoding/json"
	"io"
	"os"
)

// EncodeDebugJSON writes the laid-out pages as indented JSON. Image bytes
// are omitted; only their boxes and pixel sizes are kept.
func EncodeDebugJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteDebugJSON dumps res to path for inspecting a layout without
// rendering it.
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
