package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendwise/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	const header = "title;amount;category\n"

	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}{
		{
			name:        "UTF8Passthrough",
			input:       []byte("title;amount\nCafé crème;12,50\nBäckerei;3,00\n"),
			want:        "title;amount\nCafé crème;12,50\nBäckerei;3,00\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, header...),
			want:        header,
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF16LE",
			input:       []byte{0xFF, 0xFE, 'h', 0, 'i', 0, '\n', 0},
			want:        "hi\n",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "UTF16BE",
			input:       []byte{0xFE, 0xFF, 0, 'h', 0, 'i', 0, '\n'},
			want:        "hi\n",
			wantCharset: encoding.UTF16BE,
		},
		{
			// "Café;Crème" with é = 0xE9, è = 0xE8 in Windows-1252.
			name:  "Latin1",
			input: []byte{'C', 'a', 'f', 0xE9, ';', 'C', 'r', 0xE8, 'm', 'e', '\n'},
			want:  "Café;Crème\n",
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	row := []byte("Lunch;12.50;Food\n")
	input := bytes.Repeat(row, 1000)

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}
