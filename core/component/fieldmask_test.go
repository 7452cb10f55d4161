package component

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pokkur/layr/core/mask"
)

// newCinemaModel declares two mutually referencing classes registered
// in a shared registry.
func newCinemaModel(t *testing.T) (movie, director *Component) {
	t.Helper()
	movie, err := New("Movie")
	if err != nil {
		t.Fatalf("New(Movie) error = %v", err)
	}
	movie.SetField("title", FieldOptions{
		Type:     FieldType{Name: "string"},
		Default:  Constant(""),
		Exposure: &Exposure{Get: true},
	})
	movie.SetField("year", FieldOptions{
		Type:    FieldType{Name: "number"},
		Default: Constant(1900),
	})
	movie.SetField("director", FieldOptions{Type: FieldType{Name: "Director"}})

	director, err = New("Director")
	if err != nil {
		t.Fatalf("New(Director) error = %v", err)
	}
	director.SetField("fullName", FieldOptions{
		Type:     FieldType{Name: "string"},
		Default:  Constant(""),
		Exposure: &Exposure{Get: true},
	})
	director.SetField("movies", FieldOptions{
		Type:    FieldType{Name: "Movie", IsArray: true},
		Default: func() any { return []any{} },
	})

	newFakeRegistry("backend", "frontend", movie, director)
	return movie, director
}

func TestCreateFieldMaskExpandsReferencedClasses(t *testing.T) {
	movie, _ := newCinemaModel(t)

	m, err := movie.CreateFieldMask(true, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		t.Fatalf("CreateFieldMask() error = %v", err)
	}

	want := map[string]any{
		"title": true,
		"year":  true,
		"director": map[string]any{
			"fullName": true,
			"movies": map[string]any{
				"title": true,
				"year":  true,
			},
		},
	}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskTerminatesOnSelfReference(t *testing.T) {
	node, _ := New("Node")
	node.SetField("value", FieldOptions{Type: FieldType{Name: "string"}})
	node.SetField("next", FieldOptions{Type: FieldType{Name: "Node"}})
	newFakeRegistry("backend", "", node)

	m, err := node.CreateFieldMask(true, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		t.Fatalf("CreateFieldMask() error = %v", err)
	}

	want := map[string]any{
		"value": true,
		"next":  map[string]any{"value": true},
	}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskHonorsSelector(t *testing.T) {
	movie, _ := newCinemaModel(t)

	m, err := movie.CreateFieldMask(map[string]any{"title": true}, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		t.Fatalf("CreateFieldMask() error = %v", err)
	}
	want := map[string]any{"title": true}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskSkipsReferencesWhenDisabled(t *testing.T) {
	movie, _ := newCinemaModel(t)

	m, err := movie.CreateFieldMask(true, CreateFieldMaskOptions{})
	if err != nil {
		t.Fatalf("CreateFieldMask() error = %v", err)
	}
	want := map[string]any{"title": true, "year": true}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskSkipsUnresolvableReferences(t *testing.T) {
	movie, _ := New("Movie")
	movie.SetField("title", FieldOptions{Type: FieldType{Name: "string"}})
	movie.SetField("director", FieldOptions{Type: FieldType{Name: "Director"}})

	// No registry is bound, so Director cannot be resolved.
	m, err := movie.CreateFieldMask(true, CreateFieldMaskOptions{IncludeReferencedEntities: true})
	if err != nil {
		t.Fatalf("CreateFieldMask() error = %v", err)
	}
	want := map[string]any{"title": true}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskForExposedFields(t *testing.T) {
	movie, _ := newCinemaModel(t)

	m, err := movie.CreateFieldMaskForExposedFields(true)
	if err != nil {
		t.Fatalf("CreateFieldMaskForExposedFields() error = %v", err)
	}
	want := map[string]any{"title": true}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask = %v, want %v", got, want)
	}

	// Exposing the reference pulls in the referenced class's exposed
	// fields only.
	p, _ := movie.GetField("director")
	p.SetExposure(Exposure{Get: true})

	m, err = movie.CreateFieldMaskForExposedFields(true)
	if err != nil {
		t.Fatalf("CreateFieldMaskForExposedFields() error = %v", err)
	}
	want = map[string]any{
		"title":    true,
		"director": map[string]any{"fullName": true},
	}
	if got := m.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("mask after exposing director = %v, want %v", got, want)
	}
}

func TestCreateFieldMaskRejectsInvalidSelector(t *testing.T) {
	movie, _ := newCinemaModel(t)

	_, err := movie.CreateFieldMask(42, CreateFieldMaskOptions{})
	var selErr *mask.InvalidSelectorError
	if !errors.As(err, &selErr) {
		t.Fatalf("CreateFieldMask(42) error = %v, want *mask.InvalidSelectorError", err)
	}
}
