package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateSlots(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{"one hour window", "09:00", "10:00", []string{"09:00", "09:30", "10:00"}},
		{"unaligned start keeps its grid", "09:05", "09:35", []string{"09:05", "09:35"}},
		{"unaligned end is never crossed", "09:00", "09:45", []string{"09:00", "09:30"}},
		{"zero-length window", "12:00", "12:00", []string{"12:00"}},
		{"carry across the hour", "09:05", "10:10", []string{"09:05", "09:35", "10:05"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSlots(tt.from, tt.to)
			if err != nil {
				t.Fatalf("GenerateSlots(%q, %q): %v", tt.from, tt.to, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateSlotsAlignedGridCount(t *testing.T) {
	// For aligned windows the slot count is (to-from)/30 + 1, first slot is
	// from, last is to, and slots increase strictly.
	got, err := GenerateSlots("08:00", "17:30")
	if err != nil {
		t.Fatal(err)
	}
	wantLen := (17*60+30-8*60)/30 + 1
	if len(got) != wantLen {
		t.Fatalf("len=%d want %d", len(got), wantLen)
	}
	if got[0] != "08:00" || got[len(got)-1] != "17:30" {
		t.Fatalf("bounds: first=%s last=%s", got[0], got[len(got)-1])
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("not strictly increasing at %d: %s <= %s", i, got[i], got[i-1])
		}
	}
}

func TestGenerateSlotsInvertedWindow(t *testing.T) {
	slots, err := GenerateSlots("17:00", "09:00")
	if !errors.Is(err, ErrInvertedWindow) {
		t.Fatalf("err=%v want ErrInvertedWindow", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestGenerateSlotsBadInput(t *testing.T) {
	for _, s := range []string{"", "9", "25:00", "09:60", "ab:cd"} {
		if _, err := GenerateSlots(s, "10:00"); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("from=%q err=%v want ErrInvalidTime", s, err)
		}
	}
}
