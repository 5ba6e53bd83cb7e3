package slice

import (
	"strconv"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, strconv.Itoa)
	expected := []string{"1", "2", "3"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("expected %q at %d, got %q", expected[i], i, got[i])
		}
	}

	if Map[int, string](nil, strconv.Itoa) != nil {
		t.Errorf("expected nil for nil input")
	}
}
