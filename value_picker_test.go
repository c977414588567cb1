package main

import (
	"reflect"
	"testing"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		text      string
		wantMatch bool
		wantPos   []int
	}{
		{"empty search matches everything", "", "users", true, nil},
		{"exact match", "users", "users", true, []int{0, 1, 2, 3, 4}},
		{"subsequence match", "usr", "users", true, []int{0, 1, 3}},
		{"case insensitive", "USR", "users", true, []int{0, 1, 3}},
		{"out of order does not match", "su", "users", false, nil},
		{"missing character", "userz", "users", false, nil},
		{"longer than text", "usersx", "users", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, pos := fuzzyMatch(tt.search, tt.text)
			if match != tt.wantMatch {
				t.Errorf("fuzzyMatch(%q, %q) match = %v, want %v", tt.search, tt.text, match, tt.wantMatch)
			}
			if tt.wantMatch && tt.wantPos != nil && !reflect.DeepEqual(pos, tt.wantPos) {
				t.Errorf("fuzzyMatch(%q, %q) positions = %v, want %v", tt.search, tt.text, pos, tt.wantPos)
			}
		})
	}
}

func TestHighlightMatches(t *testing.T) {
	tests := []struct {
		name      string
		item      string
		positions []int
		want      string
	}{
		{"no positions", "users", nil, "users"},
		{"single position", "users", []int{0}, "[darkgreen::b]u[-::-]sers"},
		{"two positions", "ab", []int{0, 1}, "[darkgreen::b]a[-::-][darkgreen::b]b[-::-]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := highlightMatches(tt.item, tt.positions); got != tt.want {
				t.Errorf("highlightMatches(%q, %v) = %q, want %q", tt.item, tt.positions, got, tt.want)
			}
		})
	}
}

func TestCleanItems(t *testing.T) {
	got := cleanItems([]string{" users ", "orders\n", "", "  \n"})
	want := []string{"users", "orders"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanItems = %v, want %v", got, want)
	}
}
