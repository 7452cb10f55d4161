package component

// Exposure grants remote access to a property. The zero value is fully
// private: an unexposed property is invisible to introspection and to
// the exposed-fields mask used when serializing toward an untrusted
// target.
type Exposure struct {
	Get  bool `json:"get,omitempty" yaml:"get,omitempty"`
	Set  bool `json:"set,omitempty" yaml:"set,omitempty"`
	Call bool `json:"call,omitempty" yaml:"call,omitempty"`
}

// IsEmpty reports whether the exposure grants nothing.
func (e Exposure) IsEmpty() bool {
	return !e.Get && !e.Set && !e.Call
}
