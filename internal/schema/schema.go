// Package schema validates free-form JSON documents (game settings and
// statistic payloads) against embedded JSON schemas.
package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/mindgames-dev/mindgames/internal/errors"
)

const (
	GameSettings  = "game_settings"
	StatisticData = "statistic_data"
)

//go:embed schemas
var schemaFiles embed.FS

type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewDefault compiles the embedded schemas.
func NewDefault() (*Validator, error) {
	sub, err := fs.Sub(schemaFiles, "schemas")
	if err != nil {
		return nil, err
	}
	return NewFromFS(sub)
}

// NewFromFS uses json files at the root of fsys as top level schemas and
// json files under refs/ as schemas they may reference.
func NewFromFS(fsys fs.FS) (*Validator, error) {
	readDir := func(dir string) ([]string, error) {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return nil, fmt.Errorf("cannot read dir %s: %w", dir, err)
		}
		var docs []string
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			name := e.Name()
			if dir != "." {
				name = dir + "/" + name
			}
			b, err := fs.ReadFile(fsys, name)
			if err != nil {
				return nil, fmt.Errorf("cannot read file %s: %w", name, err)
			}
			docs = append(docs, string(b))
		}
		return docs, nil
	}

	schemas, err := readDir(".")
	if err != nil {
		return nil, err
	}
	refs, err := readDir("refs")
	if err != nil {
		return nil, err
	}
	return New(schemas, refs)
}

// New compiles every schema in schemas. Each must carry an $id and may only
// reference documents in refs.
func New(schemas, refs []string) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(schemas))}
	for _, doc := range schemas {
		var head struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal([]byte(doc), &head); err != nil {
			return nil, fmt.Errorf("parse schema: %w", err)
		}
		if head.ID == "" {
			return nil, fmt.Errorf("schema without $id: %.60s", doc)
		}

		sl := gojsonschema.NewSchemaLoader()
		for _, ref := range refs {
			if err := sl.AddSchemas(gojsonschema.NewStringLoader(ref)); err != nil {
				return nil, fmt.Errorf("add ref schema: %w", err)
			}
		}
		compiled, err := sl.Compile(gojsonschema.NewStringLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", head.ID, err)
		}
		v.schemas[head.ID] = compiled
	}
	return v, nil
}

func (v *Validator) HasSchema(id string) bool {
	_, ok := v.schemas[id]
	return ok
}

// Validate checks doc against the schema id. Invalid documents yield a 400
// listing every violation.
func (v *Validator) Validate(id string, doc []byte) error {
	s, ok := v.schemas[id]
	if !ok {
		return fmt.Errorf("unknown schema %s", id)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return errors.BadRequest("Invalid json document")
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.BadRequest("Invalid " + id + ": " + strings.Join(msgs, "; "))
}
