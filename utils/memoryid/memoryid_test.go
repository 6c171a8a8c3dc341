package memoryid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()

	if !strings.HasPrefix(id, "mem_") {
		t.Errorf("New() = %v, want mem_ prefix", id)
	}
	if len(id) != len("mem_")+26 {
		t.Errorf("New() length = %v, want %v", len(id), len("mem_")+26)
	}
	if id != strings.ToLower(id) {
		t.Errorf("New() = %v, want lowercase", id)
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const iterations = 10000
	seen := make(map[string]bool)

	for i := 0; i < iterations; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("New() generated duplicate ID: %v", id)
		}
		seen[id] = true
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "generated id", id: New(), want: true},
		{name: "missing prefix", id: "01hqv3x8p9w2y5z7a1b3c5d7e9", want: false},
		{name: "wrong prefix", id: "img_01hqv3x8p9w2y5z7a1b3c5d7e9", want: false},
		{name: "empty", id: "", want: false},
		{name: "prefix only", id: "mem_", want: false},
		{name: "garbage suffix", id: "mem_not-a-ulid", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.id); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	id := New()
	parsed, err := Parse(id)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", id, err)
	}
	if got := "mem_" + strings.ToLower(parsed.String()); got != id {
		t.Errorf("round trip = %v, want %v", got, id)
	}
}

func BenchmarkNew(b *testing.B) {
	for i := 0; i < b.N; i++ {
		New()
	}
}
