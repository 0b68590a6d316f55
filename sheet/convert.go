package sheet

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

var timeLayouts = []string{
	dateTimeLayout,
	dateLayout,
	time.RFC3339,
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

var (
	timeType            = reflect.TypeOf(time.Time{})
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// cellValue converts a field into a value the Sheets API accepts.
func cellValue(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return "", nil
	}
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", nil
		}
		return cellValue(v.Elem())
	}

	if v.Type() == timeType {
		return formatTime(v.Interface().(time.Time)), nil
	}
	if v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return string(b), nil
	}
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String(), nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	}

	return nil, errors.Errorf("unsupported field type %s", v.Type())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

func isBlank(cell any) bool {
	if cell == nil {
		return true
	}
	s, ok := cell.(string)
	return ok && strings.TrimSpace(s) == ""
}

func cellString(cell any) string {
	switch c := cell.(type) {
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

// setCell stores a loosely typed cell value into v.
func setCell(v reflect.Value, cell any) error {
	if isBlank(cell) {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}

	if v.Kind() == reflect.Pointer {
		p := reflect.New(v.Type().Elem())
		if err := setCell(p.Elem(), cell); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}

	if v.Type() == timeType {
		t, err := parseTime(cell)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(cellString(cell)))
		return errors.WithStack(err)
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(cellString(cell))
	case reflect.Bool:
		b, err := parseBool(cell)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := parseInt(cell)
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return errors.Errorf("%v does not fit %s", cell, v.Type())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := parseUint(cell)
		if err != nil {
			return err
		}
		if v.OverflowUint(n) {
			return errors.Errorf("%v does not fit %s", cell, v.Type())
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := parseNumber(cell)
		if err != nil {
			return err
		}
		if v.OverflowFloat(f) {
			return errors.Errorf("%v does not fit %s", cell, v.Type())
		}
		v.SetFloat(f)
	default:
		return errors.Errorf("unsupported field type %s", v.Type())
	}

	return nil
}

func parseNumber(cell any) (float64, error) {
	switch c := cell.(type) {
	case float64:
		return c, nil
	case bool:
		if c {
			return 1, nil
		}
		return 0, nil
	}

	f, err := strconv.ParseFloat(numberText(cell), 64)
	if err != nil {
		return 0, errors.Errorf("%q is not a number", cellString(cell))
	}
	return f, nil
}

// parseInt reads decimal strings exactly and falls back to floats within the
// int64 range.
func parseInt(cell any) (int64, error) {
	if _, ok := cell.(string); ok {
		n, err := strconv.ParseInt(numberText(cell), 10, 64)
		if err == nil {
			return n, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, errors.Errorf("%q is out of range", cellString(cell))
		}
	}

	f, err := parseNumber(cell)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, errors.Errorf("%v is not an int64", cell)
	}
	return int64(f), nil
}

func parseUint(cell any) (uint64, error) {
	if _, ok := cell.(string); ok {
		n, err := strconv.ParseUint(numberText(cell), 10, 64)
		if err == nil {
			return n, nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, errors.Errorf("%q is out of range", cellString(cell))
		}
	}

	f, err := parseNumber(cell)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f < 0 || f >= 1<<64 {
		return 0, errors.Errorf("%v is not a uint64", cell)
	}
	return uint64(f), nil
}

func numberText(cell any) string {
	return strings.ReplaceAll(strings.TrimSpace(cellString(cell)), ",", "")
}

func parseBool(cell any) (bool, error) {
	switch c := cell.(type) {
	case bool:
		return c, nil
	case float64:
		return c != 0, nil
	}

	s := strings.TrimSpace(cellString(cell))
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.Errorf("%q is not a boolean", s)
	}
	return b, nil
}

func parseTime(cell any) (time.Time, error) {
	s := strings.TrimSpace(cellString(cell))
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("%q is not a time", s)
}
