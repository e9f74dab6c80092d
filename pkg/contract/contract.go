// Package contract embeds the OpenAPI description of the two CRM endpoints an
// inquiry form talks to and validates payloads against its component schemas.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-inquiry/pkg/model"
)

// Schema names declared in the embedded document.
const (
	SchemaTemplate   = "Template"
	SchemaSubmission = "InquirySubmission"
	SchemaErrorBody  = "ErrorBody"
)

// Operation paths declared in the embedded document.
const (
	PathTemplateByToken = "/api/inquiry-templates/share/{token}"
	PathSubmitInquiry   = "/api/inquiries"
)

// ErrSchemaNotFound is returned when a schema is missing from the document.
var ErrSchemaNotFound = errors.New("contract: schema not found")

//go:embed openapi.yaml
var document []byte

// Document returns the raw embedded OpenAPI YAML.
func Document() []byte {
	return append([]byte(nil), document...)
}

// Contract validates payloads against a loaded OpenAPI document.
type Contract struct {
	doc *openapi3.T
}

var (
	defaultOnce     sync.Once
	defaultContract *Contract
	defaultErr      error
)

// Default returns the contract built from the embedded document. The document
// is parsed once per process.
func Default() (*Contract, error) {
	defaultOnce.Do(func() {
		defaultContract, defaultErr = Load(context.Background(), document)
	})
	return defaultContract, defaultErr
}

// Load parses and validates an OpenAPI document.
func Load(ctx context.Context, data []byte) (*Contract, error) {
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: invalid document: %w", err)
	}
	return &Contract{doc: doc}, nil
}

// Paths returns the operation paths declared by the document.
func (c *Contract) Paths() []string {
	if c == nil || c.doc == nil || c.doc.Paths == nil {
		return nil
	}
	out := make([]string, 0, c.doc.Paths.Len())
	for path := range c.doc.Paths.Map() {
		out = append(out, path)
	}
	return out
}

// ValidateSubmission checks a submission payload.
func (c *Contract) ValidateSubmission(sub model.Submission) error {
	return c.Validate(SchemaSubmission, sub)
}

// ValidateTemplate checks a template payload.
func (c *Contract) ValidateTemplate(tpl model.Template) error {
	return c.Validate(SchemaTemplate, tpl)
}

// Validate checks value against the named component schema. value is
// converted through JSON first so struct tags decide the wire shape.
func (c *Contract) Validate(schemaName string, value any) error {
	if c == nil || c.doc == nil || c.doc.Components == nil {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaName)
	}
	ref, ok := c.doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaName)
	}

	generic, err := toGeneric(value)
	if err != nil {
		return fmt.Errorf("contract: encode %s: %w", schemaName, err)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return fmt.Errorf("contract: %s: %w", schemaName, err)
	}
	return nil
}

func toGeneric(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
