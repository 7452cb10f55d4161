package definition

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	yaml := `
registry: catalog

components:
  - name: Movie
    attributes:
      limit: { value: 100, expose: { get: true } }
    fields:
      title:
        type: string
        default: ""
        expose: { get: true, set: true }
        validators:
          - { type: not_empty }
          - { type: max_length, value: 120 }
      director: { type: Director, expose: { get: true } }
    methods:
      play: { expose: { call: true } }
  - name: Director
    fields:
      fullName: { type: string, expose: { get: true } }
      movies: { type: "Movie[]" }
`

	def, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if def.Registry != "catalog" {
		t.Errorf("Registry = %q, want %q", def.Registry, "catalog")
	}

	if len(def.Components) != 2 {
		t.Fatalf("Components has %d entries, want 2", len(def.Components))
	}

	movie := def.Components[0]
	if movie.Name != "Movie" {
		t.Errorf("Name = %q, want %q", movie.Name, "Movie")
	}

	limit, ok := movie.Attributes["limit"]
	if !ok {
		t.Fatal("Attributes missing 'limit'")
	}
	if limit.Value != 100 {
		t.Errorf("limit value = %v, want 100", limit.Value)
	}
	if limit.Expose == nil || !limit.Expose.Get {
		t.Errorf("limit expose = %+v, want get", limit.Expose)
	}

	title, ok := movie.Fields["title"]
	if !ok {
		t.Fatal("Fields missing 'title'")
	}
	if title.Type != "string" {
		t.Errorf("title type = %q, want string", title.Type)
	}
	if len(title.Validators) != 2 {
		t.Errorf("title has %d validators, want 2", len(title.Validators))
	}

	if _, ok := movie.Methods["play"]; !ok {
		t.Error("Methods missing 'play'")
	}

	if got := def.Components[1].Fields["movies"].Type; got != "Movie[]" {
		t.Errorf("movies type = %q, want Movie[]", got)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid minimal",
			yaml: `
components:
  - name: Movie
    fields:
      title: { type: string }
`,
			wantErr: false,
		},
		{
			name:    "no components",
			yaml:    `registry: catalog`,
			wantErr: true,
		},
		{
			name: "invalid registry name",
			yaml: `
registry: 9catalog
components:
  - name: Movie
    fields:
      title: { type: string }
`,
			wantErr: true,
		},
		{
			name: "reserved component name",
			yaml: `
components:
  - name: Component
    fields:
      title: { type: string }
`,
			wantErr: true,
		},
		{
			name: "duplicate component",
			yaml: `
components:
  - name: Movie
    fields:
      title: { type: string }
  - name: Movie
    fields:
      year: { type: number }
`,
			wantErr: true,
		},
		{
			name: "field without type",
			yaml: `
components:
  - name: Movie
    fields:
      title: { default: "" }
`,
			wantErr: true,
		},
		{
			name: "component reference with default",
			yaml: `
components:
  - name: Movie
    fields:
      director: { type: Director, default: nobody }
`,
			wantErr: true,
		},
		{
			name: "default type mismatch",
			yaml: `
components:
  - name: Movie
    fields:
      year: { type: number, default: nineteen }
`,
			wantErr: true,
		},
		{
			name: "array default",
			yaml: `
components:
  - name: Movie
    fields:
      tags: { type: "string[]", default: [thriller, drama] }
`,
			wantErr: false,
		},
		{
			name: "array default element mismatch",
			yaml: `
components:
  - name: Movie
    fields:
      tags: { type: "string[]", default: [thriller, 7] }
`,
			wantErr: true,
		},
		{
			name: "min_length without value",
			yaml: `
components:
  - name: Movie
    fields:
      title:
        type: string
        validators:
          - { type: min_length }
`,
			wantErr: true,
		},
		{
			name: "invalid pattern",
			yaml: `
components:
  - name: Movie
    fields:
      title:
        type: string
        validators:
          - { type: pattern, value: "[" }
`,
			wantErr: true,
		},
		{
			name: "one_of without list",
			yaml: `
components:
  - name: Movie
    fields:
      rating:
        type: string
        validators:
          - { type: one_of, value: G }
`,
			wantErr: true,
		},
		{
			name: "unknown validator",
			yaml: `
components:
  - name: Movie
    fields:
      title:
        type: string
        validators:
          - { type: shouty }
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(path, content string) {
		t.Helper()
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll failed: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	writeFile("catalog.yaml", `
registry: catalog
components:
  - name: Movie
    fields:
      title: { type: string }
`)
	writeFile("people/directors.yml", `
components:
  - name: Director
    fields:
      fullName: { type: string }
`)
	writeFile("README.md", "not a definition")

	defs, err := ParseDir(dir)
	if err != nil {
		t.Fatalf("ParseDir failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("ParseDir returned %d definitions, want 2", len(defs))
	}
}

func TestParseDirPropagatesErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("registry: catalog"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := ParseDir(dir); err == nil {
		t.Error("ParseDir() with an invalid document did not fail")
	}
}
