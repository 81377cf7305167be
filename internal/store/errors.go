package store

import "fmt"

type NotFoundError struct {
	Kind string
	Ref  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Ref)
}

func errTaskNotFound(ref Ref) error {
	return NotFoundError{Kind: "task", Ref: ref.String()}
}
