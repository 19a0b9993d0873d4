package formula

import (
	"math"
	"testing"
)

/* ─── BMR accuracy tests ─────────────────────────────────────────────── */

// TestBMR_Male verifies the male Mifflin-St Jeor constant with known inputs:
// 10*70 + 6.25*175 - 5*25 + 5 = 1073.75.
func TestBMR_Male(t *testing.T) {
	got := BMR(GenderMale, 70, 175, 25)
	if got != 1073.75 {
		t.Errorf("BMR(male, 70, 175, 25) = %v, want 1073.75", got)
	}
}

// TestBMR_Female verifies the female constant: same inputs but -161 instead
// of +5, giving 907.75.
func TestBMR_Female(t *testing.T) {
	got := BMR(GenderFemale, 70, 175, 25)
	if got != 907.75 {
		t.Errorf("BMR(female, 70, 175, 25) = %v, want 907.75", got)
	}
}

/* ─── Activity multiplier boundary tests ─────────────────────────────── */

// TestActivityMultiplier_Boundaries pins the bucket edges: upper bounds are
// right-exclusive, so minutes=20 already falls in the second bucket.
func TestActivityMultiplier_Boundaries(t *testing.T) {
	cases := []struct {
		minutes int
		want    float64
	}{
		{0, 1.2},
		{19, 1.2},
		{20, 1.375},
		{39, 1.375},
		{40, 1.55},
		{59, 1.55},
		{60, 1.725},
		{89, 1.725},
		{90, 1.9},
		{240, 1.9},
	}
	for _, tc := range cases {
		if got := ActivityMultiplier(tc.minutes); got != tc.want {
			t.Errorf("ActivityMultiplier(%d) = %v, want %v", tc.minutes, got, tc.want)
		}
	}
}

/* ─── Water norm tests ───────────────────────────────────────────────── */

func TestWaterNormML(t *testing.T) {
	if got := WaterNormML(70); got != 2100 {
		t.Errorf("WaterNormML(70) = %v, want 2100", got)
	}
}

// TestWaterNormML_Monotonic verifies the norm grows with weight.
func TestWaterNormML_Monotonic(t *testing.T) {
	prev := WaterNormML(40)
	for w := 41.0; w <= 140; w++ {
		cur := WaterNormML(w)
		if cur <= prev {
			t.Fatalf("WaterNormML not monotonic at weight %v: %v <= %v", w, cur, prev)
		}
		prev = cur
	}
}

/* ─── Goal and cost rounding tests ───────────────────────────────────── */

// TestCalorieGoal_AutoProfile pins the auto goal for a 70kg/175cm/25y male:
// 30 min of activity lands in the 1.375 bucket, round(1073.75 * 1.375) = 1476.
func TestCalorieGoal_AutoProfile(t *testing.T) {
	bmr := BMR(GenderMale, 70, 175, 25)
	mult := ActivityMultiplier(30)
	if mult != 1.375 {
		t.Fatalf("ActivityMultiplier(30) = %v, want 1.375", mult)
	}
	if got := CalorieGoal(bmr, mult); got != 1476 {
		t.Errorf("CalorieGoal(1073.75, 1.375) = %d, want 1476", got)
	}
	if got := CalorieGoal(bmr, 1.55); got != int(math.Round(1073.75*1.55)) {
		t.Errorf("CalorieGoal(1073.75, 1.55) = %d, want %d", got, int(math.Round(1073.75*1.55)))
	}
}

func TestHourlyCost(t *testing.T) {
	cases := []struct {
		rate    float64
		minutes int
		want    int
	}{
		{600, 30, 300},
		{600, 45, 450},
		{350, 20, 117}, // 116.66 rounds up
		{200, 7, 23},   // 23.33 rounds down
		{0, 60, 0},
	}
	for _, tc := range cases {
		if got := HourlyCost(tc.rate, tc.minutes); got != tc.want {
			t.Errorf("HourlyCost(%v, %d) = %d, want %d", tc.rate, tc.minutes, got, tc.want)
		}
	}
}
