// Package schema validates quiz documents against the embedded JSON
// Schemas of the queck authoring format and the qknb notebook format.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/queckhq/queck/internal/node"
)

//go:embed queck.schema.json qknb.schema.json
var schemaFS embed.FS

// Schema selects one of the embedded schema documents.
type Schema string

const (
	// Queck is the schema of the YAML authoring format.
	Queck Schema = "queck"
	// Notebook is the schema of the parsed qknb JSON format.
	Notebook Schema = "qknb"
)

// Source returns the embedded JSON Schema document.
func Source(which Schema) ([]byte, error) {
	data, err := schemaFS.ReadFile(string(which) + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q", which)
	}
	return data, nil
}

// ValidationError collects every violation found in a document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return "schema: " + e.Issues[0]
	}
	return fmt.Sprintf("schema: %d violations: %s",
		len(e.Issues), strings.Join(e.Issues, "; "))
}

// Validate checks a document against one of the embedded schemas. Queck
// documents are YAML, Notebook documents are JSON. Violations are
// collected into a *ValidationError instead of stopping at the first.
func Validate(doc []byte, which Schema) error {
	if which == Queck {
		n, err := node.Decode(doc)
		if err != nil {
			return err
		}
		doc, err = node.EncodeJSON(n)
		if err != nil {
			return err
		}
	}
	src, err := Source(which)
	if err != nil {
		return err
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(src))
	if err != nil {
		return fmt.Errorf("compiling %s schema: %w", which, err)
	}
	res, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validating document: %w", err)
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, re := range res.Errors() {
		verr.Issues = append(verr.Issues, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return verr
}
