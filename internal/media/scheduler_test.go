package media

import (
	"math"
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		t      float64
		per    float64
		want   int
		wantOK bool
	}{
		{"no media", 0, 3, 5, 0, false},
		{"zero duration", 4, 3, 0, 0, false},
		{"start", 4, 0, 5, 0, true},
		{"inside first", 4, 4.99, 5, 0, true},
		{"boundary", 4, 5, 5, 1, true},
		{"last item", 4, 19.9, 5, 3, true},
		{"wraps", 4, 22, 5, 0, true},
		{"wraps twice", 4, 47, 5, 1, true},
		{"negative wraps from end", 4, -1, 5, 3, true},
		{"single item", 1, 1234.5, 5, 0, true},
		{"nan", 4, math.NaN(), 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.count, tt.t, tt.per)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("Select(%d, %v, %v) = (%d, %v), want (%d, %v)", tt.count, tt.t, tt.per, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelect_Periodic(t *testing.T) {
	for count := 1; count <= 7; count++ {
		for _, per := range []float64{0.5, 2, 5} {
			period := float64(count) * per
			for k := 0; k < 12*count; k++ {
				// quarter steps offset away from item boundaries
				ts := float64(k)*per/4 + per/8
				a, okA := Select(count, ts, per)
				b, okB := Select(count, ts+period, per)
				if a != b || okA != okB {
					t.Fatalf("count=%d per=%v t=%v: Select = %d, Select(t+period) = %d", count, per, ts, a, b)
				}
			}
		}
	}
}

func TestSelectItems_Scenario(t *testing.T) {
	items := make([]Item, 4)
	got, ok := SelectItems(items, 22, 5)
	if !ok || got != 0 {
		t.Errorf("SelectItems(4 items, 22, 5) = (%d, %v), want (0, true)", got, ok)
	}
}

func TestSelectItems_OwnDurations(t *testing.T) {
	items := []Item{
		{Name: "a", DisplayDurationSeconds: 10},
		{Name: "b"},
		{Name: "c", DisplayDurationSeconds: 2},
	}

	tests := []struct {
		t    float64
		want int
	}{
		{0, 0},
		{7, 0},
		{9.99, 0},
		{10, 1},
		{14.9, 1},
		{15, 2},
		{16.5, 2},
		{17, 0},
		{24, 0},
		{-1, 2},
	}
	for _, tt := range tests {
		got, ok := SelectItems(items, tt.t, 5)
		if !ok || got != tt.want {
			t.Errorf("SelectItems(t=%v) = (%d, %v), want (%d, true)", tt.t, got, ok, tt.want)
		}
	}
}

func TestSelectItems_Periodic(t *testing.T) {
	items := []Item{{DisplayDurationSeconds: 3}, {DisplayDurationSeconds: 1.5}, {}}
	period := CarouselSeconds(items, 2)
	if period != 6.5 {
		t.Fatalf("CarouselSeconds() = %v, want 6.5", period)
	}
	for k := 0; k < 40; k++ {
		ts := float64(k)*0.37 + 0.01
		a, _ := SelectItems(items, ts, 2)
		b, _ := SelectItems(items, ts+period, 2)
		if a != b {
			t.Fatalf("t=%v: SelectItems = %d, SelectItems(t+period) = %d", ts, a, b)
		}
	}
}

func TestSelectItems_NothingToShow(t *testing.T) {
	if _, ok := SelectItems(nil, 1, 5); ok {
		t.Error("SelectItems(no items) reported an index")
	}
	if _, ok := SelectItems([]Item{{}, {}}, 1, 0); ok {
		t.Error("SelectItems(no durations) reported an index")
	}
}

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   Kind
		wantOK bool
	}{
		{"photo.JPG", KindImage, true},
		{"clip.mp4", KindVideo, true},
		{"clip.webm", KindVideo, true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := KindFromFilename(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("KindFromFilename(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}
