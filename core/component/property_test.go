package component

import (
	"errors"
	"testing"
)

func TestGetPropertyBindsToRequester(t *testing.T) {
	movie, _ := New("Movie")
	movie.SetAttribute("limit", AttributeOptions{Value: 100})

	fork := movie.Fork()
	p, err := fork.GetAttribute("limit")
	if err != nil {
		t.Fatalf("GetAttribute() error = %v", err)
	}
	if p.Owner() != fork {
		t.Error("Owner() is not the requesting component")
	}

	orig, _ := movie.GetAttribute("limit")
	if orig.Owner() != movie {
		t.Error("origin property Owner() is not the origin component")
	}
	if p == orig {
		t.Error("fork and origin share the same property object")
	}
}

func TestLookupProperty(t *testing.T) {
	movie, _ := New("Movie")
	movie.SetAttribute("limit", AttributeOptions{Value: 100})

	if _, ok := movie.LookupProperty("limit"); !ok {
		t.Error("LookupProperty(limit) = false, want true")
	}
	if _, ok := movie.LookupProperty("missing"); ok {
		t.Error("LookupProperty(missing) = true, want false")
	}

	_, err := movie.GetProperty("missing")
	var unknown *UnknownPropertyError
	if !errors.As(err, &unknown) {
		t.Errorf("GetProperty(missing) error = %v, want *UnknownPropertyError", err)
	}
}

func TestGetAttributeRejectsMethods(t *testing.T) {
	movie, _ := New("Movie")
	movie.SetMethod("find", MethodOptions{
		Handler: func(receiver *Component, args ...any) (any, error) { return nil, nil },
	})

	_, err := movie.GetAttribute("find")
	var mismatch *KindMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("GetAttribute(find) error = %v, want *KindMismatchError", err)
	}
	if mismatch.Want != Attribute || mismatch.Got != Method {
		t.Errorf("KindMismatchError = want %v got %v", mismatch.Want, mismatch.Got)
	}

	if _, err := movie.GetMethod("find"); err != nil {
		t.Errorf("GetMethod(find) error = %v", err)
	}
}

func TestExposureDefaultsToPrivate(t *testing.T) {
	movie, _ := New("Movie")
	p, _ := movie.SetAttribute("limit", AttributeOptions{Value: 100})

	if p.IsExposed() {
		t.Error("IsExposed() = true for a fresh property, want false")
	}
	if got := p.Exposure(); !got.IsEmpty() {
		t.Errorf("Exposure() = %+v, want empty", got)
	}
}

func TestSetExposure(t *testing.T) {
	movie, _ := New("Movie")
	p, _ := movie.SetAttribute("limit", AttributeOptions{
		Value:    100,
		Exposure: &Exposure{Get: true},
	})

	if !p.IsExposed() {
		t.Error("IsExposed() = false, want true")
	}
	got := p.Exposure()
	if !got.Get || got.Set || got.Call {
		t.Errorf("Exposure() = %+v, want get only", got)
	}

	p.SetExposure(Exposure{Get: true, Set: true})
	if got := p.Exposure(); !got.Set {
		t.Errorf("Exposure() after widening = %+v, want get and set", got)
	}
}

func TestClearExposureOverridesInherited(t *testing.T) {
	movie, _ := New("Movie")
	movie.SetAttribute("limit", AttributeOptions{Value: 100, Exposure: &Exposure{Get: true}})

	fork := movie.Fork()
	p, _ := fork.GetAttribute("limit")
	if !p.IsExposed() {
		t.Fatal("fork property did not inherit exposure")
	}

	p.ClearExposure()
	if p.IsExposed() {
		t.Error("fork property still exposed after ClearExposure")
	}

	orig, _ := movie.GetAttribute("limit")
	if !orig.IsExposed() {
		t.Error("origin property lost its exposure")
	}
}

func TestPropertyDefaultValue(t *testing.T) {
	movie, _ := New("Movie")
	p, _ := movie.SetInstanceAttribute("title", AttributeOptions{Default: Constant("")})

	got, ok := p.DefaultValue()
	if !ok {
		t.Fatal("DefaultValue() has no value")
	}
	if got != "" {
		t.Errorf("DefaultValue() = %v, want empty string", got)
	}
}

func TestPropertyNamesAreValidated(t *testing.T) {
	movie, _ := New("Movie")
	tests := []struct {
		name string
		prop string
	}{
		{"empty", ""},
		{"reserved prefix", "__id"},
		{"leading digit", "1st"},
		{"space", "the limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := movie.SetAttribute(tt.prop, AttributeOptions{Value: 1}); err == nil {
				t.Errorf("SetAttribute(%q) did not fail", tt.prop)
			}
		})
	}
}

func TestDeclareOnInstanceFails(t *testing.T) {
	movie, _ := New("Movie")
	inst := movie.Instantiate()
	if _, err := inst.SetAttribute("limit", AttributeOptions{Value: 1}); err == nil {
		t.Error("SetAttribute() on an instance did not fail")
	}
}
