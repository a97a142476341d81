package cache

import "fmt"

// PanicError is returned to every caller that shared a fetch that panicked.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("cache: fetch panicked: %v", e.Value)
}
