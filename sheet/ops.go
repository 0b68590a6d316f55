package sheet

import (
	"context"
	"strconv"
	"strings"
)

func titleOf[T Record](suffix string) string {
	var zero T
	return Title(zero.SheetName(), suffix)
}

// columnRange resolves the A1 range of T's columns after skipping.
func columnRange[T Record](o options) (string, error) {
	n, err := ColumnCount[T]()
	if err != nil {
		return "", err
	}
	return Range(n, o.skipStart, o.skipEnd)
}

// GetSheet reads every record of type T from its sheet. The first non-blank row is
// skipped as a header unless SkipRows says otherwise.
func GetSheet[T Record](ctx context.Context, c *Client, opts ...Option) ([]T, error) {
	o := newOptions(1, opts)
	rng, err := columnRange[T](o)
	if err != nil {
		return nil, err
	}

	values, err := c.values(ctx, A1(titleOf[T](o.suffix), rng))
	if err != nil {
		return nil, err
	}

	return UnmarshalRows[T](values, o.skipRows, o.skipStart, o.skipEnd)
}

// CreateSheet adds a sheet for T and writes its header row. It reports false when a
// sheet with that title already exists.
func CreateSheet[T Record](ctx context.Context, c *Client, opts ...Option) (bool, error) {
	o := newOptions(0, opts)
	title := titleOf[T](o.suffix)

	exists, err := c.hasTitle(ctx, title)
	if err != nil {
		return false, err
	}
	if exists {
		c.log.Debug().Str("title", title).Msg("sheet exists")
		return false, nil
	}

	if err := c.addSheet(ctx, title); err != nil {
		return false, err
	}
	if err := InsertHeader[T](ctx, c, opts...); err != nil {
		return false, err
	}
	return true, nil
}

// InsertHeader appends the header row of T.
func InsertHeader[T Record](ctx context.Context, c *Client, opts ...Option) error {
	o := newOptions(0, opts)
	rng, err := columnRange[T](o)
	if err != nil {
		return err
	}
	row, err := HeaderRow[T](o.skipStart, o.skipEnd)
	if err != nil {
		return err
	}

	return c.appendRows(ctx, A1(titleOf[T](o.suffix), rng), [][]any{row})
}

// InsertValue appends one record below the last row of its sheet.
func InsertValue[T Record](ctx context.Context, c *Client, record T, opts ...Option) error {
	o := newOptions(0, opts)
	rng, err := columnRange[T](o)
	if err != nil {
		return err
	}
	row, err := MarshalRow(record, o.skipStart, o.skipEnd)
	if err != nil {
		return err
	}

	return c.appendRows(ctx, A1(titleOf[T](o.suffix), rng), [][]any{row})
}

// InsertValues appends records to their sheet and reports whether anything was
// written. With SkipRows(n) for n > 0 the rows below the first n are cleared first,
// so the records replace the previous data.
func InsertValues[T Record](ctx context.Context, c *Client, records []T, opts ...Option) (bool, error) {
	if len(records) == 0 {
		return false, nil
	}

	o := newOptions(0, opts)
	rng, err := columnRange[T](o)
	if err != nil {
		return false, err
	}
	rows, err := marshalRows(records, o.skipStart, o.skipEnd)
	if err != nil {
		return false, err
	}
	title := titleOf[T](o.suffix)

	if o.skipRows > 0 {
		if err := c.clear(ctx, A1(title, belowRows(rng, o.skipRows))); err != nil {
			return false, err
		}
	}

	if err := c.appendRows(ctx, A1(title, rng), rows); err != nil {
		return false, err
	}
	return true, nil
}

// MapToBatchRangeData maps records into the value matrix sent to the API.
func MapToBatchRangeData[T Record](records []T) ([][]any, error) {
	return MarshalRows(records)
}

// belowRows turns "A:C" into "A<n+1>:C", the span under the first n rows.
func belowRows(rng string, n int) string {
	start, end, _ := strings.Cut(rng, ":")
	return start + strconv.Itoa(n+1) + ":" + end
}
