package routes

import (
	"net/http"
	"regexp"

	"github.com/halalcheck/halalcheck/pkg/openapi"
)

var pathParam = regexp.MustCompile(`\{(\w+)(?:\.\.\.)?\}`)

// Document describes every route of groups in spec under basePath.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, g := range groups {
		for _, r := range g.Routes {
			path := pathParam.ReplaceAllString(basePath+g.Prefix+r.Pattern, "{$1}")

			item := spec.Paths[path]
			if item == nil {
				item = &openapi.PathItem{}
				spec.Paths[path] = item
			}

			op := describe(r, g)
			switch r.Method {
			case http.MethodGet:
				item.Get = op
			case http.MethodPost:
				item.Post = op
			case http.MethodPut:
				item.Put = op
			case http.MethodDelete:
				item.Delete = op
			}
		}
	}
}

func describe(r Route, g Group) *openapi.Operation {
	success := &openapi.Response{Description: http.StatusText(r.successStatus())}

	op := &openapi.Operation{
		Summary:     r.Summary,
		Description: g.Description,
		Tags:        g.Tags,
		Responses: map[int]*openapi.Response{
			r.successStatus():              success,
			http.StatusBadRequest:          openapi.ResponseRef("BadRequest"),
			http.StatusInternalServerError: openapi.ResponseRef("ServerError"),
		},
	}

	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		op.RequestBody = openapi.JSONBody()
	}

	params := pathParam.FindAllStringSubmatch(r.Pattern, -1)
	for _, m := range params {
		op.Parameters = append(op.Parameters, parameter(m[1]))
	}
	if len(params) > 0 {
		op.Responses[http.StatusNotFound] = openapi.ResponseRef("NotFound")
	}
	return op
}

func parameter(name string) *openapi.Parameter {
	if name == "id" {
		return openapi.PathParam(name, "Resource ID")
	}
	return &openapi.Parameter{
		Name:     name,
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string"},
	}
}
