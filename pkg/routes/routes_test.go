package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halalcheck/halalcheck/pkg/openapi"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

func reply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + ":" + r.PathValue("id")))
	}
}

func group() routes.Group {
	return routes.Group{
		Prefix:      "/ingredients",
		Tags:        []string{"Ingredients"},
		Description: "Reference ingredients",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Summary: "List ingredients", Handler: reply("list")},
			{Method: "POST", Pattern: "", Summary: "Create ingredient", Status: http.StatusCreated, Handler: reply("create")},
			{Method: "GET", Pattern: "/{id}", Handler: reply("find")},
			{Method: "DELETE", Pattern: "/{id}", Handler: reply("delete")},
		},
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, group())

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/ingredients", "list:"},
		{"POST", "/ingredients", "create:"},
		{"GET", "/ingredients/42", "find:42"},
		{"DELETE", "/ingredients/42", "delete:42"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Body.String() != tt.want {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", "/ingredients/42", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("unregistered method status = %d, want 405", rec.Code)
	}
}

func TestDocument(t *testing.T) {
	spec := openapi.NewSpec("HalalCheck API", "test")
	routes.Document(spec, "/api", group())

	list := spec.Paths["/api/ingredients"]
	if list == nil {
		t.Fatal("missing /api/ingredients")
	}
	if list.Get.Summary != "List ingredients" || list.Get.Tags[0] != "Ingredients" {
		t.Errorf("GET = %+v", list.Get)
	}
	if list.Post.RequestBody == nil {
		t.Error("POST has no request body")
	}
	if _, ok := list.Post.Responses[http.StatusCreated]; !ok {
		t.Error("POST does not document 201")
	}
	if _, ok := list.Get.Responses[http.StatusNotFound]; ok {
		t.Error("collection GET documents 404")
	}

	item := spec.Paths["/api/ingredients/{id}"]
	if item == nil {
		t.Fatal("missing /api/ingredients/{id}")
	}
	if len(item.Get.Parameters) != 1 || item.Get.Parameters[0].Schema.Format != "uuid" {
		t.Errorf("id parameter = %+v", item.Get.Parameters)
	}
	if _, ok := item.Delete.Responses[http.StatusNoContent]; !ok {
		t.Error("DELETE does not document 204")
	}
	if item.Get.Responses[http.StatusNotFound].Ref != "#/components/responses/NotFound" {
		t.Error("item GET does not reference NotFound")
	}
}
