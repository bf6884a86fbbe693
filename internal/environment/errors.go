package environment

import "fmt"

// FileReadError reports a file value source that could not be read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading file %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// MultiValueParseError reports a multiple-value block that is not a list of
// KEY=value lines. Field is the declared variable that produced the block.
type MultiValueParseError struct {
	Field string
	Line  string
	Err   error
}

func (e *MultiValueParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing multi-variable mapping for field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("parsing multi-variable mapping for field %s: malformed line %q — expected KEY=value", e.Field, e.Line)
}

func (e *MultiValueParseError) Unwrap() error {
	return e.Err
}
