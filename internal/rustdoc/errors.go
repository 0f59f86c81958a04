package rustdoc

import "fmt"

// ParseError means a document could not be acquired or deserialized: the
// manifest was missing, unparseable, or lacked a package name; the
// cargo-doc command exited unsuccessfully; the dump file could not be
// read; or the raw text failed to decode. It names the offending path and
// the underlying cause. The first failure aborts the whole operation; no
// retries.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(path string, err error) error {
	return &ParseError{Path: path, Err: err}
}

func parseErrf(path, format string, args ...any) error {
	return &ParseError{Path: path, Err: fmt.Errorf(format, args...)}
}
