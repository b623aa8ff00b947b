package render

import (
	"fmt"

	"github.com/dshills/clausecritic/internal/schema"
)

// Renderer formats a Result into bytes for download.
type Renderer interface {
	Render(res *schema.Result) ([]byte, error)
	// ContentType returns the MIME type to serve the rendered bytes with.
	ContentType() string
}

// NewRenderer returns a Renderer for the given format string.
// Supported formats: "json" (default), "csv", "xlsx".
func NewRenderer(format string) (Renderer, error) {
	switch format {
	case "json":
		return &jsonRenderer{}, nil
	case "csv":
		return &csvRenderer{}, nil
	case "xlsx":
		return &xlsxRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, csv, xlsx", format)
	}
}
