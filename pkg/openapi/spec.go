package openapi

import (
	"encoding/json"
	"net/http"
)

// Shared error responses. Every error body is {"error": "..."}.
var errorResponses = map[string]string{
	"BadRequest":  "The request was malformed or failed validation",
	"NotFound":    "No resource exists with that identifier",
	"Conflict":    "The resource conflicts with an existing one",
	"ServerError": "The server failed to complete the request",
}

// NewSpec starts a document with the shared error schema and responses.
func NewSpec(title, version string) *Spec {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string"},
				},
			},
		},
		Responses: make(map[string]*Response, len(errorResponses)),
	}
	for name, desc := range errorResponses {
		c.Responses[name] = &Response{
			Description: desc,
			Content:     jsonContent(&Schema{Ref: "#/components/schemas/Error"}),
		}
	}

	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       Info{Title: title, Version: version},
		Paths:      map[string]*PathItem{},
		Components: c,
	}
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// ResponseRef points at a shared response such as "NotFound".
func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// PathParam declares a required uuid path segment.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

// JSONBody declares a required JSON object request body.
func JSONBody() *RequestBody {
	return &RequestBody{Required: true, Content: jsonContent(&Schema{Type: "object"})}
}

func jsonContent(s *Schema) map[string]*MediaType {
	return map[string]*MediaType{"application/json": {Schema: s}}
}

func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec serves a document rendered once at startup.
func ServeSpec(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(doc)
	}
}
