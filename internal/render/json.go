package render

import (
	"encoding/json"

	"github.com/dshills/clausecritic/internal/schema"
)

type jsonRenderer struct{}

func (r *jsonRenderer) Render(res *schema.Result) ([]byte, error) {
	return json.MarshalIndent(res, "", "  ")
}

func (r *jsonRenderer) ContentType() string { return "application/json" }
