package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1 file", Count(1, "file"))
	assert.Equal(t, "0 raw posts", Count(0, "raw post"))
	assert.Equal(t, "2,048 malformed ones", Count(2048, "malformed one"))
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `Processed 1 file\.`, EscapeMarkdownV2("Processed 1 file."))
	assert.Equal(t, `a\_b \(c\)`, EscapeMarkdownV2("a_b (c)"))
}
