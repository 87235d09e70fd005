package repeats

import "testing"

func TestDefaultFilter(t *testing.T) {
	filter := DefaultFilter(4)
	tests := []struct {
		name    string
		literal []byte
		want    bool
	}{
		{"ordinary term", []byte("abcd"), true},
		{"noise pattern fragment", []byte{0x81, 0x22}, false},
		{"whole noise pattern", []byte{0x81, 0x22, 0x81, 0x22}, false},
		{"noise interior", []byte{0xca, 0x10, 0x00}, false},
		{"longer than any pattern", append(make([]byte, 30), 0x01), true},
		// Zero runs up to ten bytes long are substrings of the noise
		// patterns, so the pattern rule already rejects them below
		// minTermSize.
		{"short zero run", []byte{0x00, 0x00, 0x00}, false},
		{"long zero run", []byte{0x00, 0x00, 0x00, 0x00}, false},
		{"long run with one nonzero", []byte{0x00, 0x00, 0x07, 0x00}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter(tt.literal); got != tt.want {
				t.Errorf("filter(% x) = %v, want %v", tt.literal, got, tt.want)
			}
		})
	}
}

func TestAllowAll(t *testing.T) {
	if !AllowAll([]byte{0x00, 0x00, 0x00, 0x00}) {
		t.Error("AllowAll rejected a term")
	}
}
