package errs

import "fmt"

// UnknownToolError is returned when the model asks for a tool outside the
// registered set.
type UnknownToolError struct {
	Name string
}

func (v *UnknownToolError) Error() string {
	return fmt.Sprintf("tool %s not found", v.Name)
}

func NewUnknownToolError(name string) *UnknownToolError {
	return &UnknownToolError{Name: name}
}

var _ error = &UnknownToolError{}
