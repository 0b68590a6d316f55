package sheet

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotStruct     = errors.New("sheet: record must be a struct")
	ErrNoColumns     = errors.New("sheet: record has no sheet columns")
	ErrBadTag        = errors.New("sheet: invalid sheet tag")
	ErrEmptyRange    = errors.New("sheet: column range is empty")
	ErrInvalidColumn = errors.New("sheet: invalid column name")
	ErrInvalidConfig = errors.New("sheet: invalid configuration")
)

// CellError reports a cell that could not be converted into its field.
type CellError struct {
	Row    int    // 1-based among the data rows returned
	Column string // A1 column letters
	Field  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet: row %d column %s (%s): %v", e.Row, e.Column, e.Field, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
