package sheet

import (
	"strings"

	"github.com/pkg/errors"
)

// ColumnName converts a zero-based column index to A1 letters: 0 is A, 25 is Z,
// 26 is AA.
func ColumnName(index int) string {
	if index < 0 {
		index = 0
	}

	var buf []byte
	for n := index + 1; n > 0; {
		m := (n - 1) % 26
		buf = append(buf, byte('A'+m))
		n = (n - m) / 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}

// ColumnIndex is the inverse of ColumnName.
func ColumnIndex(name string) (int, error) {
	if name == "" {
		return 0, errors.WithStack(ErrInvalidColumn)
	}

	n := 0
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			return 0, errors.Wrapf(ErrInvalidColumn, "%q", name)
		}
		n = n*26 + int(r-'A') + 1
	}

	return n - 1, nil
}

// Range returns the "start:end" column span covering columns fields after
// dropping skipStart columns on the left and skipEnd on the right.
func Range(columns, skipStart, skipEnd int) (string, error) {
	start, end, err := window(columns, skipStart, skipEnd)
	if err != nil {
		return "", err
	}

	return ColumnName(start) + ":" + ColumnName(end), nil
}

func window(columns, skipStart, skipEnd int) (int, int, error) {
	start := skipStart
	end := columns - 1 - skipEnd
	if columns <= 0 || start > end {
		return 0, 0, errors.Wrapf(ErrEmptyRange, "%d columns, skip %d/%d", columns, skipStart, skipEnd)
	}

	return start, end, nil
}

// A1 joins a sheet title and a range, quoting the title when needed.
func A1(title, rng string) string {
	return quoteTitle(title) + "!" + rng
}

func quoteTitle(title string) string {
	plain := title != ""
	for _, r := range title {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			plain = false
			break
		}
	}
	if plain {
		return title
	}

	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// Title composes the sheet title from a record's sheet name and an optional suffix.
func Title(name, suffix string) string {
	if strings.TrimSpace(suffix) == "" {
		return strings.TrimRight(name, " ")
	}
	if strings.HasPrefix(suffix, " ") {
		return name + suffix
	}

	return name + " " + suffix
}
