package util

import "testing"

func TestAlphaTokenCountASCII(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello world", 2},
		{"hello, world!", 0},
		{"hello_world foo123", 2},
		{"  spaced   out  ", 2},
	}
	for _, c := range cases {
		if got := AlphaTokenCount(c.in); got != c.want {
			t.Errorf("AlphaTokenCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAlphaTokenCountUnicode(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"café résumé", 2},
		{"日本語 テスト", 2},
		{"mixed café, foo!", 1},
	}
	for _, c := range cases {
		if got := AlphaTokenCount(c.in); got != c.want {
			t.Errorf("AlphaTokenCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
