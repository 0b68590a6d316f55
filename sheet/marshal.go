package sheet

import (
	"reflect"

	"github.com/pkg/errors"
)

// MarshalRow returns the cells of a single record, restricted to the columns left
// after skipping skipStart on the left and skipEnd on the right.
func MarshalRow[T Record](record T, skipStart, skipEnd int) ([]any, error) {
	cols, err := recordColumns[T]()
	if err != nil {
		return nil, err
	}
	start, end, err := window(len(cols), skipStart, skipEnd)
	if err != nil {
		return nil, err
	}

	return marshalRow(reflect.ValueOf(record), cols[start:end+1])
}

func marshalRow(v reflect.Value, cols []column) ([]any, error) {
	row := make([]any, 0, len(cols))
	for _, col := range cols {
		f, err := v.FieldByIndexErr(col.field)
		if err != nil {
			f = reflect.Value{}
		}
		cell, err := cellValue(f)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", col.name)
		}
		row = append(row, cell)
	}
	return row, nil
}

// MarshalRows maps records into the row matrix the Sheets API expects, one row per
// record and every column included.
func MarshalRows[T Record](records []T) ([][]any, error) {
	return marshalRows(records, 0, 0)
}

func marshalRows[T Record](records []T, skipStart, skipEnd int) ([][]any, error) {
	cols, err := recordColumns[T]()
	if err != nil {
		return nil, err
	}
	start, end, err := window(len(cols), skipStart, skipEnd)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(records))
	for i, r := range records {
		row, err := marshalRow(reflect.ValueOf(r), cols[start:end+1])
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HeaderRow returns the column headers of T: the tag's name option or the field name.
func HeaderRow[T Record](skipStart, skipEnd int) ([]any, error) {
	cols, err := recordColumns[T]()
	if err != nil {
		return nil, err
	}
	start, end, err := window(len(cols), skipStart, skipEnd)
	if err != nil {
		return nil, err
	}

	row := make([]any, 0, end-start+1)
	for _, col := range cols[start : end+1] {
		row = append(row, col.header)
	}
	return row, nil
}

// UnmarshalRows builds records from a value matrix. Rows whose cells are all blank
// are dropped before the first skipRows rows are skipped. Cell j of a row fills the
// column at position skipStart+j.
func UnmarshalRows[T Record](values [][]any, skipRows, skipStart, skipEnd int) ([]T, error) {
	cols, err := recordColumns[T]()
	if err != nil {
		return nil, err
	}
	start, end, err := window(len(cols), skipStart, skipEnd)
	if err != nil {
		return nil, err
	}
	cols = cols[start : end+1]

	var items []T
	skipped := 0
	for _, row := range values {
		if blankRow(row) {
			continue
		}
		if skipped < skipRows {
			skipped++
			continue
		}

		var item T
		v := reflect.ValueOf(&item).Elem()
		for j, col := range cols {
			if j >= len(row) {
				break
			}
			if err := setCell(fieldAlloc(v, col.field), row[j]); err != nil {
				return nil, &CellError{
					Row:    len(items) + 1,
					Column: ColumnName(start + j),
					Field:  col.name,
					Err:    err,
				}
			}
		}
		items = append(items, item)
	}

	return items, nil
}

func blankRow(row []any) bool {
	for _, cell := range row {
		if !isBlank(cell) {
			return false
		}
	}
	return true
}

// fieldAlloc walks an index path, allocating nil embedded pointers on the way.
func fieldAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
