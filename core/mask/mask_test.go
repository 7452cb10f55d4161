package mask

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		selector any
		want     *Mask
	}{
		{"nil selects nothing", nil, None()},
		{"true selects all", true, All()},
		{"false selects nothing", false, None()},
		{"existing mask passes through", All(), All()},
		{
			"mapping builds explicit mask",
			map[string]any{"title": true, "director": map[string]any{"fullName": true}},
			func() *Mask {
				m := None()
				m.Set("title", All())
				d := None()
				d.Set("fullName", All())
				m.Set("director", d)
				return m
			}(),
		},
		{
			"false entries are dropped",
			map[string]any{"title": true, "secret": false},
			func() *Mask {
				m := None()
				m.Set("title", All())
				return m
			}(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.selector)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Normalize() = %v, want %v", got.Serialize(), tt.want.Serialize())
			}
		})
	}
}

func TestNormalizeRejectsUnknownSelector(t *testing.T) {
	_, err := Normalize(42)
	var selErr *InvalidSelectorError
	if !errors.As(err, &selErr) {
		t.Fatalf("Normalize(42) error = %v, want *InvalidSelectorError", err)
	}
}

func TestGet(t *testing.T) {
	m := None()
	nested := None()
	nested.Set("fullName", All())
	m.Set("director", nested)

	if got := m.Get("director"); !got.Equal(nested) {
		t.Errorf("Get(director) = %v, want %v", got.Serialize(), nested.Serialize())
	}
	if got := m.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got.Serialize())
	}
	if got := All().Get("anything"); !got.IsAll() {
		t.Errorf("All().Get() = %v, want select-all", got.Serialize())
	}
	var nilMask *Mask
	if got := nilMask.Get("anything"); got != nil {
		t.Errorf("nil mask Get() = %v, want nil", got)
	}
}

func TestSetDropsEmptyNestedMasks(t *testing.T) {
	m := None()
	m.Set("title", None())
	if !m.IsEmpty() {
		t.Errorf("mask after setting empty nested mask = %v, want empty", m.Serialize())
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	m := None()
	m.Set("title", All())
	nested := None()
	nested.Set("fullName", All())
	m.Set("director", nested)

	plain := m.Serialize()
	back, err := Normalize(plain)
	if err != nil {
		t.Fatalf("Normalize(serialized) error = %v", err)
	}
	if !back.Equal(m) {
		t.Errorf("round-trip mask = %v, want %v", back.Serialize(), m.Serialize())
	}
}

func TestSerializeScalarForms(t *testing.T) {
	if got := All().Serialize(); got != true {
		t.Errorf("All().Serialize() = %v, want true", got)
	}
	if got := None().Serialize(); got != false {
		t.Errorf("None().Serialize() = %v, want false", got)
	}
}

func TestNames(t *testing.T) {
	m := None()
	m.Set("title", All())
	m.Set("director", All())
	got := m.Names()
	want := []string{"director", "title"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEqual(t *testing.T) {
	a := None()
	a.Set("title", All())
	b := None()
	b.Set("title", All())
	c := None()
	c.Set("year", All())

	tests := []struct {
		name string
		x, y *Mask
		want bool
	}{
		{"same shape", a, b, true},
		{"different names", a, c, false},
		{"all vs explicit", All(), a, false},
		{"empty vs nil", None(), nil, true},
		{"all vs all", All(), All(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.x.Equal(tt.y); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
