package sheet

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Record is a struct type mapped to a sheet. SheetName must work on the zero value.
type Record interface {
	SheetName() string
}

const tagName = "sheet"

type column struct {
	index  int // declared column index, used for ordering
	name   string
	header string
	field  []int
}

func columnsOf(t reflect.Type) ([]column, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrNotStruct, "%v", t)
	}

	var cols []column
	seen := map[int]string{}
	for _, f := range reflect.VisibleFields(t) {
		tag, ok := f.Tag.Lookup(tagName)
		if !ok || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, errors.Wrapf(ErrBadTag, "%s.%s is unexported", t.Name(), f.Name)
		}

		col, err := parseTag(tag)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", t.Name(), f.Name)
		}
		if prev, dup := seen[col.index]; dup {
			return nil, errors.Wrapf(ErrBadTag, "%s.%s and %s share column %d", t.Name(), prev, f.Name, col.index)
		}
		seen[col.index] = f.Name

		col.name = f.Name
		if col.header == "" {
			col.header = f.Name
		}
		col.field = f.Index
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return nil, errors.Wrapf(ErrNoColumns, "%s", t.Name())
	}

	sort.Slice(cols, func(i, j int) bool { return cols[i].index < cols[j].index })

	return cols, nil
}

// parseTag reads `sheet:"<index>[,name=<header>]"`.
func parseTag(tag string) (column, error) {
	parts := strings.Split(tag, ",")
	idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || idx < 0 {
		return column{}, errors.Wrapf(ErrBadTag, "column index %q", parts[0])
	}

	col := column{index: idx}
	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(opt, "=")
		switch strings.TrimSpace(key) {
		case "name":
			col.header = val
		default:
			return column{}, errors.Wrapf(ErrBadTag, "unknown option %q", opt)
		}
	}

	return col, nil
}

func recordType[T Record]() reflect.Type {
	var zero T
	return reflect.TypeOf(zero)
}

func recordColumns[T Record]() ([]column, error) {
	return columnsOf(recordType[T]())
}

// ColumnCount reports how many columns records of type T occupy.
func ColumnCount[T Record]() (int, error) {
	cols, err := recordColumns[T]()
	if err != nil {
		return 0, err
	}
	return len(cols), nil
}
