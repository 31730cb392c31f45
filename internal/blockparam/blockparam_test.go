package blockparam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123", "0x7b"},
		{"0", "0x0"},
		{"+16", "0x10"},
		{" 255 ", "0xff"},
		{"18446744073709551616", "0x10000000000000000"},
		{"latest", "latest"},
		{"pending", "pending"},
		{"0x10", "0x10"},
		{"-5", "-5"},
		{"1.5", "1.5"},
		{"", ""},
		{"12abc", "12abc"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIsTag(t *testing.T) {
	assert.True(t, IsTag("latest"))
	assert.True(t, IsTag("Finalized"))
	assert.False(t, IsTag("0x1"))
	assert.False(t, IsTag(""))
}

