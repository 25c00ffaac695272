package player

import "testing"

func TestNewStartingSnapshot(t *testing.T) {
	p := New("tester")

	if p.Level != 1 {
		t.Errorf("Level = %d, want 1", p.Level)
	}
	if p.HP != p.MaxHP {
		t.Errorf("HP = %d, MaxHP = %d, want full health", p.HP, p.MaxHP)
	}
	if p.CurrentFloor != 1 || p.DeepestFloor != 1 {
		t.Errorf("floors = %d/%d, want 1/1", p.CurrentFloor, p.DeepestFloor)
	}
	if p.CurrentArea == "" {
		t.Error("CurrentArea is empty")
	}
	if p.TravelDestination != "" {
		t.Error("new player has an active journey")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		deepest     int
		wantCurrent int
		wantDeepest int
	}{
		{name: "valid untouched", current: 3, deepest: 5, wantCurrent: 3, wantDeepest: 5},
		{name: "zero floor raised", current: 0, deepest: 0, wantCurrent: 1, wantDeepest: 1},
		{name: "deepest catches up", current: 7, deepest: 2, wantCurrent: 7, wantDeepest: 7},
	}

	for _, tt := range tests {
		p := New("tester")
		p.CurrentFloor = tt.current
		p.DeepestFloor = tt.deepest
		p.Normalize()
		if p.CurrentFloor != tt.wantCurrent || p.DeepestFloor != tt.wantDeepest {
			t.Errorf("%s: floors = %d/%d, want %d/%d",
				tt.name, p.CurrentFloor, p.DeepestFloor, tt.wantCurrent, tt.wantDeepest)
		}
	}
}

func TestIsAlive(t *testing.T) {
	p := New("tester")
	if !p.IsAlive() {
		t.Error("full-health player reports dead")
	}
	p.HP = 0
	if p.IsAlive() {
		t.Error("zero-HP player reports alive")
	}
}
