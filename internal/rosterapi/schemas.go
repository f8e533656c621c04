package rosterapi

import (
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// compileSchema compiles the embedded schema schemas/<name>.json.
func compileSchema(name string) (*jsonschema.Schema, error) {
	path := "schemas/" + name + ".json"
	f, err := schemaFS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening schema %q: %w", name, err)
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("error decoding schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://rosterapi/" + path
	if err = c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("error adding schema %q: %w", name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("error compiling schema %q: %w", name, err)
	}

	return schema, nil
}
