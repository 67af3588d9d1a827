package layout

import "fmt"

// UnsupportedBlockError reports a content block or page spec the engine
// does not know how to lay out. It always aborts the build.
type UnsupportedBlockError struct {
	Page    string // plan entry the block belongs to, if any
	Index   int
	Variant string
}

func (e *UnsupportedBlockError) Error() string {
	if e.Page == "" {
		return fmt.Sprintf("layout: unsupported plan entry %d of type %s", e.Index, e.Variant)
	}
	return fmt.Sprintf("layout: unsupported block %d of type %s in %s", e.Index, e.Variant, e.Page)
}
