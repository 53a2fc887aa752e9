package openapi

import (
	"encoding/json"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

type base struct {
	ID string `json:"id"`
}

type widget struct {
	base
	Name    string   `json:"name"`
	Tags    []string `json:"tags"`
	Secret  string   `json:"-"`
	private string
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.GET("/api/widgets/:id", func(*gin.Context) {})
	e.POST("/api/widgets", func(*gin.Context) {})
	e.GET("/healthz", func(*gin.Context) {})
	return e
}

func TestGenerateUsesRegisteredDocs(t *testing.T) {
	t.Parallel()

	g := NewGenerator(newEngine(), Info{Title: "test", Version: "1"}, nil)
	g.RegisterDocs("POST", "/api/widgets", RouteDocs{
		Summary:             "Create widget",
		RequestBody:         widget{},
		RequestContentTypes: []string{ContentTypeJSON, ContentTypeMultipart},
		Secured:             true,
		Responses:           map[int]ResponseDoc{201: {Model: widget{}}},
	})

	doc := g.Generate()

	item, ok := doc.Paths["/api/widgets/{id}"]
	if !ok || item.Get == nil {
		t.Fatalf("path params not converted: %v", doc.Paths)
	}
	if len(item.Get.Parameters) != 1 || item.Get.Parameters[0].Name != "id" {
		t.Fatalf("parameters = %+v", item.Get.Parameters)
	}
	if _, ok := item.Get.Responses["200"]; !ok {
		t.Fatalf("undocumented route lacks default response")
	}

	post := doc.Paths["/api/widgets"].Post
	if post.Summary != "Create widget" || len(post.Security) != 1 {
		t.Fatalf("post = %+v", post)
	}
	if _, ok := post.RequestBody.Content[ContentTypeMultipart]; !ok {
		t.Fatalf("multipart body missing")
	}

	created := post.Responses["201"]
	if created.Description != "Created" {
		t.Fatalf("default description = %q", created.Description)
	}
	props := created.Content[ContentTypeJSON].Schema.Properties
	for _, name := range []string{"id", "name", "tags"} {
		if _, ok := props[name]; !ok {
			t.Fatalf("property %q missing from %v", name, props)
		}
	}
	if _, ok := props["Secret"]; ok {
		t.Fatalf("json:\"-\" field documented")
	}
	if _, ok := props["private"]; ok {
		t.Fatalf("unexported field documented")
	}
}

func TestSaveToFileJSON(t *testing.T) {
	t.Parallel()

	doc := NewGenerator(newEngine(), Info{Title: "test", Version: "1"}, nil).Generate()
	path := filepath.Join(t.TempDir(), "openapi.json")
	if err := doc.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded OpenAPI
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.OpenAPI != "3.0.3" || len(decoded.Paths) != 3 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestOperationID(t *testing.T) {
	t.Parallel()

	got := operationID("GET", "github.com/x/y/internal/transport/http/handler.(*RepoHandler).GetRepository-fm")
	if got != "get_RepoHandler_GetRepository" {
		t.Fatalf("operationID = %q", got)
	}
}

type upload struct {
	*base
	Count  int                     `json:"count"`
	Public bool                    `json:"public,omitempty"`
	Files  []*multipart.FileHeader `json:"files"`
	Owner  *widget                 `json:"owner"`
}

func TestGenerateSchemaTypes(t *testing.T) {
	t.Parallel()

	props := GenerateSchema(&upload{}).Properties

	tests := []struct {
		name   string
		typ    string
		format string
	}{
		{"id", "string", ""},
		{"count", "integer", ""},
		{"public", "boolean", ""},
		{"files", "array", ""},
		{"owner", "object", ""},
	}
	for _, tt := range tests {
		got, ok := props[tt.name]
		if !ok {
			t.Fatalf("property %q missing from %v", tt.name, props)
		}
		if got.Type != tt.typ || got.Format != tt.format {
			t.Errorf("%s = %s/%s, want %s/%s", tt.name, got.Type, got.Format, tt.typ, tt.format)
		}
	}

	if items := props["files"].Items; items == nil || items.Format != "binary" {
		t.Fatalf("files items = %+v, want binary string", items)
	}
	if _, ok := props["owner"].Properties["tags"]; !ok {
		t.Fatalf("nested struct not described: %+v", props["owner"])
	}
	if GenerateSchema(nil) != nil {
		t.Fatalf("nil model must yield nil schema")
	}
}
