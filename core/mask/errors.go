package mask

import "fmt"

// InvalidSelectorError reports a selector value that is not a boolean,
// a name-to-selector mapping, or a mask.
type InvalidSelectorError struct {
	Selector any
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid field selector of type %T", e.Selector)
}
