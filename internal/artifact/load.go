package artifact

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	modelSchema = mustCompile("schema/model-v1.schema.json")
	rankSchema  = mustCompile("schema/rank-v1.schema.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read embedded schema %s: %v", name, err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("add schema resource %s: %v", name, err))
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// LoadModel fetches, validates, and decodes a model artifact. Any schema
// violation or decode failure is ErrMalformedModel: the engine refuses to
// serve from a partially valid model.
func LoadModel(ctx context.Context, source string) (*Model, error) {
	data, err := Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeModel(data)
}

// DecodeModel validates and decodes raw model artifact bytes.
func DecodeModel(data []byte) (*Model, error) {
	if err := validate(modelSchema, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModel, err)
	}
	return &m, nil
}

// LoadRank fetches, validates, and decodes a rank artifact.
func LoadRank(ctx context.Context, source string) (*Rank, error) {
	data, err := Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return DecodeRank(data)
}

// DecodeRank validates and decodes raw rank artifact bytes.
func DecodeRank(data []byte) (*Rank, error) {
	if err := validate(rankSchema, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRank, err)
	}
	var r Rank
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRank, err)
	}
	return &r, nil
}

func validate(schema *jsonschema.Schema, data []byte) error {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	return schema.Validate(instance)
}
