package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pokkur/layr/core/component"
	"github.com/pokkur/layr/core/registry"
	"github.com/pokkur/layr/remote"
)

func TestBuildRegistry(t *testing.T) {
	reg := newCatalog(t)

	built, err := remote.BuildRegistry(reg.Introspect())
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	if built.Name() != "catalog" {
		t.Errorf("Name = %q, want %q", built.Name(), "catalog")
	}

	movie, err := built.GetComponent("Movie", registry.GetComponentOptions{})
	if err != nil {
		t.Fatalf("GetComponent(Movie): %v", err)
	}

	limit, err := movie.GetAttribute("limit")
	if err != nil {
		t.Fatalf("GetAttribute(limit): %v", err)
	}
	if v, ok := limit.Value(); !ok || v != 100 {
		t.Errorf("limit value = %v, %v, want 100, true", v, ok)
	}
	if got := limit.Exposure(); !got.Get || got.Set {
		t.Errorf("limit exposure = %+v, want get only", got)
	}

	title, err := movie.GetInstanceAttribute("title")
	if err != nil {
		t.Fatalf("GetInstanceAttribute(title): %v", err)
	}
	if d, ok := title.DefaultValue(); !ok || d != "" {
		t.Errorf("title default = %v, %v, want empty string, true", d, ok)
	}
	if got := title.Exposure(); !got.Get || !got.Set {
		t.Errorf("title exposure = %+v, want get and set", got)
	}

	find, err := movie.GetMethod("find")
	if err != nil {
		t.Fatalf("GetMethod(find): %v", err)
	}
	if got := find.Exposure(); !got.Call {
		t.Errorf("find exposure = %+v, want call", got)
	}

	// Rebuilt methods carry no handler.
	if _, err := movie.CallMethod("find"); err == nil {
		t.Error("CallMethod(find) should fail on a rebuilt class")
	}
}

func TestBuildRegistrySkipsNothingExposed(t *testing.T) {
	movie, err := component.New("Movie")
	if err != nil {
		t.Fatalf("New(Movie): %v", err)
	}
	if _, err := movie.SetAttribute("limit", component.AttributeOptions{
		Value:    100,
		Exposure: &component.Exposure{Get: true},
	}); err != nil {
		t.Fatalf("SetAttribute(limit): %v", err)
	}

	secret, err := component.New("Secret")
	if err != nil {
		t.Fatalf("New(Secret): %v", err)
	}
	if _, err := secret.SetAttribute("key", component.AttributeOptions{Value: "hidden"}); err != nil {
		t.Fatalf("SetAttribute(key): %v", err)
	}

	reg, err := registry.New("catalog", movie, secret)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}

	built, err := remote.BuildRegistry(reg.Introspect())
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	if got := built.ComponentNames(); !reflect.DeepEqual(got, []string{"Movie"}) {
		t.Errorf("ComponentNames = %v, want [Movie]", got)
	}
}

func TestBuildRegistryEmpty(t *testing.T) {
	built, err := remote.BuildRegistry(registry.Introspection{})
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	if len(built.ComponentNames()) != 0 {
		t.Errorf("ComponentNames = %v, want none", built.ComponentNames())
	}
}

func TestBuildRegistryRejectsInvalidNames(t *testing.T) {
	in := registry.Introspection{
		Name: "catalog",
		Components: []registry.ComponentIntrospection{
			{Introspection: component.Introspection{Name: "9bad"}, Type: "Component"},
		},
	}

	_, err := remote.BuildRegistry(in)
	var invalid *component.InvalidNameError
	if !errors.As(err, &invalid) {
		t.Fatalf("BuildRegistry error = %v, want *component.InvalidNameError", err)
	}
}

func TestBuildRegistryRejectsUnknownPropertyKind(t *testing.T) {
	in := registry.Introspection{
		Name: "catalog",
		Components: []registry.ComponentIntrospection{
			{
				Introspection: component.Introspection{
					Name: "Movie",
					Properties: []component.PropertyIntrospection{
						{Name: "limit", Kind: "widget"},
					},
				},
				Type: "Component",
			},
		},
	}

	_, err := remote.BuildRegistry(in)
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("BuildRegistry error = %v, want unknown kind error", err)
	}
}

// The full loop: serve a registry, introspect it over HTTP, rebuild it
// locally and read the rebuilt surface.
func TestIntrospectBuildRoundTrip(t *testing.T) {
	svc := remote.NewService(newCatalog(t), zerolog.Nop())
	handler := remote.NewHandler(svc, zerolog.Nop())
	server := httptest.NewServer(remote.NewRouter(handler, zerolog.Nop(), remote.RouterConfig{}))
	defer server.Close()

	client := remote.NewClient(remote.ClientConfig{BaseURL: server.URL})

	payload, err := client.Introspect(context.Background())
	if err != nil {
		t.Fatalf("Introspect: %v", err)
	}

	built, err := remote.BuildRegistry(payload)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	movie, err := built.GetComponent("Movie", registry.GetComponentOptions{})
	if err != nil {
		t.Fatalf("GetComponent(Movie): %v", err)
	}

	// Numbers arrive as float64 after the JSON trip.
	limit, err := movie.GetAttribute("limit")
	if err != nil {
		t.Fatalf("GetAttribute(limit): %v", err)
	}
	if v, ok := limit.Value(); !ok || v != float64(100) {
		t.Errorf("limit value = %v (%T), want float64 100", v, v)
	}

	// The rebuilt registry introspects identically to the original
	// payload, so a chain of hops stays stable.
	again, err := json.Marshal(built.Introspect())
	if err != nil {
		t.Fatalf("marshal rebuilt introspection: %v", err)
	}
	first, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if string(again) != string(first) {
		t.Errorf("introspection drifted across the round trip:\n first %s\nsecond %s", first, again)
	}
}
