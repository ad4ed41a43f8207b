package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIPv4(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "plain address", input: "8.8.8.8", expected: true},
		{name: "documentation address", input: "192.0.2.1", expected: true},
		{name: "broadcast-ish edges", input: "255.255.255.255", expected: true},
		{name: "zeros", input: "0.0.0.0", expected: true},
		{name: "octet out of range", input: "999.1.1.1", expected: false},
		{name: "too few octets", input: "1.2.3", expected: false},
		{name: "too many octets", input: "1.2.3.4.5", expected: false},
		{name: "not an ip at all", input: "not-an-ip", expected: false},
		{name: "empty string", input: "", expected: false},
		{name: "ipv6 is rejected", input: "::1", expected: false},
		{name: "hostname is rejected", input: "example.com", expected: false},
		{name: "trailing garbage", input: "8.8.8.8x", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidIPv4(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello"))
	})

	t.Run("long text capped with ellipsis", func(t *testing.T) {
		long := strings.Repeat("a", 500)
		out := Truncate(long)
		assert.Len(t, []rune(out), MaxPreviewLength)
		assert.True(t, strings.HasSuffix(out, "..."))
	})

	t.Run("exactly at the limit untouched", func(t *testing.T) {
		exact := strings.Repeat("b", MaxPreviewLength)
		assert.Equal(t, exact, Truncate(exact))
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		long := strings.Repeat("á", 300)
		out := Truncate(long)
		assert.Len(t, []rune(out), MaxPreviewLength)
		assert.True(t, strings.HasSuffix(out, "..."))
	})

	t.Run("whitespace trimmed before measuring", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("  hello  "))
	})
}

func TestTruncateN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{name: "short stays", input: "abc", n: 10, expected: "abc"},
		{name: "cut with ellipsis", input: "abcdefghij", n: 8, expected: "abcde..."},
		{name: "tiny cap omits ellipsis", input: "abcdef", n: 2, expected: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateN(tt.input, tt.n))
		})
	}
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", OrDefault("", "fallback"))
	assert.Equal(t, "fallback", OrDefault("   ", "fallback"))
	assert.Equal(t, "value", OrDefault("value", "fallback"))
}
