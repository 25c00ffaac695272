package progression

import (
	"testing"

	"github.com/HuntleyOG/eldvar/internal/player"
)

func testTuning() Tuning {
	return Tuning{
		WinsRequiredPerFloor:  5,
		VoidStepPerFloor:      2,
		VoidCapPercent:        50,
		RewardXPPerFloorPct:   15,
		RewardGoldPerFloorPct: 12,
	}
}

func TestApplyWinCountsTowardAdvance(t *testing.T) {
	tun := testTuning()
	p := player.New("tester")
	p.CurrentFloor = 1

	for i := 1; i < tun.WinsRequiredPerFloor; i++ {
		p = ApplyWin(p, tun)
		if p.CurrentFloor != 1 {
			t.Fatalf("advanced after %d wins, want advance only at %d", i, tun.WinsRequiredPerFloor)
		}
		if p.FloorWins != i {
			t.Fatalf("FloorWins = %d after %d wins", p.FloorWins, i)
		}
	}

	p = ApplyWin(p, tun)
	if p.CurrentFloor != 2 {
		t.Errorf("CurrentFloor = %d after %d wins, want 2", p.CurrentFloor, tun.WinsRequiredPerFloor)
	}
	if p.FloorWins != 0 {
		t.Errorf("FloorWins = %d after advance, want 0", p.FloorWins)
	}
	if p.VoidIntensity != tun.VoidStepPerFloor {
		t.Errorf("VoidIntensity = %d after advance, want %d", p.VoidIntensity, tun.VoidStepPerFloor)
	}
	if p.DeepestFloor != 2 {
		t.Errorf("DeepestFloor = %d, want 2", p.DeepestFloor)
	}
}

func TestApplyWinVoidCapped(t *testing.T) {
	tun := testTuning()
	p := player.New("tester")
	p.CurrentFloor = 1

	// Climb far past the cap.
	for floor := 0; floor < 40; floor++ {
		for w := 0; w < tun.WinsRequiredPerFloor; w++ {
			p = ApplyWin(p, tun)
		}
		if p.VoidIntensity > tun.VoidCapPercent {
			t.Fatalf("VoidIntensity = %d exceeds cap %d", p.VoidIntensity, tun.VoidCapPercent)
		}
	}
	if p.VoidIntensity != tun.VoidCapPercent {
		t.Errorf("VoidIntensity = %d after long climb, want cap %d", p.VoidIntensity, tun.VoidCapPercent)
	}
}

func TestApplyWinDeepestFloorRatchets(t *testing.T) {
	tun := testTuning()
	p := player.New("tester")
	p.CurrentFloor = 3
	p.DeepestFloor = 10

	for i := 0; i < tun.WinsRequiredPerFloor; i++ {
		p = ApplyWin(p, tun)
	}
	if p.CurrentFloor != 4 {
		t.Errorf("CurrentFloor = %d, want 4", p.CurrentFloor)
	}
	if p.DeepestFloor != 10 {
		t.Errorf("DeepestFloor = %d, want 10 (never decreases)", p.DeepestFloor)
	}
}

func TestRewardXPScalesWithFloor(t *testing.T) {
	tun := testTuning()

	tests := []struct {
		base  int
		floor int
		want  int
	}{
		{base: 100, floor: 0, want: 100},
		{base: 100, floor: 1, want: 115},
		{base: 100, floor: 10, want: 250},
		{base: 7, floor: 3, want: 10},    // 7 * 1.45 = 10.15 -> 10
		{base: 0, floor: 10, want: 0},
		{base: -5, floor: 10, want: 0},
	}

	for _, tt := range tests {
		if got := RewardXP(tt.base, tt.floor, tun); got != tt.want {
			t.Errorf("RewardXP(%d, %d) = %d, want %d", tt.base, tt.floor, got, tt.want)
		}
	}
}

func TestRewardGoldScalesWithFloor(t *testing.T) {
	tun := testTuning()

	tests := []struct {
		base  int
		floor int
		want  int
	}{
		{base: 50, floor: 0, want: 50},
		{base: 50, floor: 5, want: 80},   // 50 * 1.60
		{base: 25, floor: 2, want: 31},   // 25 * 1.24
		{base: 0, floor: 5, want: 0},
	}

	for _, tt := range tests {
		if got := RewardGold(tt.base, tt.floor, tun); got != tt.want {
			t.Errorf("RewardGold(%d, %d) = %d, want %d", tt.base, tt.floor, got, tt.want)
		}
	}
}

func TestRewardMonotonicInFloor(t *testing.T) {
	tun := testTuning()
	prev := 0
	for floor := 0; floor <= 30; floor++ {
		got := RewardXP(40, floor, tun)
		if got < prev {
			t.Fatalf("RewardXP(40, %d) = %d, below floor %d's %d", floor, got, floor-1, prev)
		}
		prev = got
	}
}

func TestTierName(t *testing.T) {
	tests := []struct {
		floor int
		want  string
	}{
		{1, "Shallow"},
		{5, "Shallow"},
		{6, "Sunken"},
		{10, "Sunken"},
		{11, "Abyssal"},
		{20, "Abyssal"},
		{21, "Voidtouched"},
		{99, "Voidtouched"},
	}
	for _, tt := range tests {
		if got := TierName(tt.floor); got != tt.want {
			t.Errorf("TierName(%d) = %q, want %q", tt.floor, got, tt.want)
		}
	}
}

func TestRecommendedLevel(t *testing.T) {
	tests := []struct {
		floor int
		want  int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{10, 6},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := RecommendedLevel(tt.floor); got != tt.want {
			t.Errorf("RecommendedLevel(%d) = %d, want %d", tt.floor, got, tt.want)
		}
	}
}
