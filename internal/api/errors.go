package api

import "fmt"

// ContractError means the rustdoc document violated the resolver's
// structural assumptions: an enqueued id missing from the index, an item
// resolved before the root path existed, or a struct field presented as a
// path kind. These are producer faults, not user-correctable input, and
// abort resolution unconditionally.
type ContractError struct {
	Reason string
}

func (e *ContractError) Error() string {
	return "malformed rustdoc document: " + e.Reason
}

func contractf(format string, args ...any) error {
	return &ContractError{Reason: fmt.Sprintf(format, args...)}
}
