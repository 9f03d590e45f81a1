package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"trims fields", "  a , b ,c  ", []string{"a", "b", "c"}},
		{"quoted comma", `Foo,"a, b",c`, []string{"Foo", "a, b", "c"}},
		{"empty fields", "a,,", []string{"a", "", ""}},
		{"doubled quote toggles twice", `"x""y",z`, []string{"xy", "z"}},
		{"unterminated quote swallows commas", `a,"b,c`, []string{"a", "b,c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitLine(tt.line))
		})
	}
}

func TestParseCSV_StripsBOMAndCRLF(t *testing.T) {
	input := "\ufeffName,Website\r\nA,a.com\r\n\r\nB,b.com\r\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Website"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "A", table.Rows[0].Get("Name"))
	assert.Equal(t, "a.com", table.Rows[0].Get("Website"))
	assert.Equal(t, "B", table.Rows[1].Get("Name"))
	assert.Equal(t, 4, table.Rows[1].Line)
	assert.Zero(t, table.Skipped)
}

func TestParseCSV_SkipsBlankFirstField(t *testing.T) {
	input := "Name,Pricing\n\"\",Freemium\n   ,Cloud\nFoo,Freemium\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Foo", table.Rows[0].Get("Name"))
	assert.Equal(t, 2, table.Skipped)
}

func TestParseCSV_MalformedInput(t *testing.T) {
	for _, input := range []string{"", "\n\n   \r\n"} {
		_, err := ParseCSV(strings.NewReader(input))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedInput))
	}
}

func TestParseCSV_ReadError(t *testing.T) {
	_, err := ParseCSV(failingReader{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestRow_Get(t *testing.T) {
	table, err := ParseCSV(strings.NewReader("Name,Tag,Tag\nFoo,first,second\nBar\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "second", table.Rows[0].Get("Tag"), "later duplicate header wins")
	assert.Equal(t, "", table.Rows[0].Get("Missing"))
	assert.Equal(t, "", table.Rows[1].Get("Tag"), "short row reads as empty")
	assert.True(t, table.HasColumn("Name"))
	assert.False(t, table.HasColumn("Website"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}
