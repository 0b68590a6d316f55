package sheet

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{-3, "A"},
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnName(tt.index), "index %d", tt.index)
	}
}

func TestColumnIndexRoundTrip(t *testing.T) {
	for i := 0; i < 20000; i += 7 {
		got, err := ColumnIndex(ColumnName(i))
		require.NoError(t, err)
		require.Equal(t, i, got)
	}

	got, err := ColumnIndex("xfd")
	require.NoError(t, err)
	assert.Equal(t, 16383, got)
}

func TestColumnIndexInvalid(t *testing.T) {
	for _, name := range []string{"", "A1", "Ä", "A-B"} {
		_, err := ColumnIndex(name)
		assert.True(t, errors.Is(err, ErrInvalidColumn), "name %q", name)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		columns, start, end int
		want                string
	}{
		{1, 0, 0, "A:A"},
		{5, 0, 0, "A:E"},
		{5, 1, 0, "B:E"},
		{5, 0, 2, "A:C"},
		{5, 2, 2, "C:C"},
		{30, 0, 0, "A:AD"},
	}
	for _, tt := range tests {
		got, err := Range(tt.columns, tt.start, tt.end)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Range(5, 3, 2)
	assert.True(t, errors.Is(err, ErrEmptyRange))
	_, err = Range(0, 0, 0)
	assert.True(t, errors.Is(err, ErrEmptyRange))
}

func TestA1(t *testing.T) {
	assert.Equal(t, "People!A:E", A1("People", "A:E"))
	assert.Equal(t, "'People 2024'!A:E", A1("People 2024", "A:E"))
	assert.Equal(t, "'Bob''s'!B2:C", A1("Bob's", "B2:C"))
	assert.Equal(t, "''!A:A", A1("", "A:A"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "People", Title("People", ""))
	assert.Equal(t, "People", Title("People", "   "))
	assert.Equal(t, "People 2024", Title("People", "2024"))
	assert.Equal(t, "People 2024", Title("People", " 2024"))
}
