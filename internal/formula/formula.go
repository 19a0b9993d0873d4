// Package formula holds the deterministic calculations behind goals and
// workout costs. Everything here is pure; callers validate inputs (the
// profile wizard rejects non-positive weight/height/age before these run).
package formula

import "math"

// Gender values stored on a profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// BMR computes basal metabolic rate via Mifflin-St Jeor.
// Male: 10w + 6.25h - 5a + 5; female: 10w + 6.25h - 5a - 161.
func BMR(gender string, weightKG float64, heightCM, ageYears int) float64 {
	bmr := 10*weightKG + 6.25*float64(heightCM) - 5*float64(ageYears)
	if gender == GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier maps minutes of daily activity to a TDEE factor.
// Buckets are right-exclusive on the upper bound: exactly 20 minutes lands
// in the 1.375 bucket.
func ActivityMultiplier(minutes int) float64 {
	switch {
	case minutes < 20:
		return 1.2
	case minutes < 40:
		return 1.375
	case minutes < 60:
		return 1.55
	case minutes < 90:
		return 1.725
	default:
		return 1.9
	}
}

// WaterNormML is the daily water goal in millilitres: 30 ml per kg of body weight.
func WaterNormML(weightKG float64) float64 {
	return weightKG * 30
}

// CalorieGoal derives the daily calorie budget from BMR and the activity
// multiplier. Use math.Round to avoid systematic under-reporting from truncation.
func CalorieGoal(bmr, multiplier float64) int {
	return int(math.Round(bmr * multiplier))
}

// HourlyCost prorates an hourly rate (kcal/hour or ml/hour) over a workout
// duration and rounds to the nearest whole unit.
func HourlyCost(ratePerHour float64, minutes int) int {
	return int(math.Round(ratePerHour * float64(minutes) / 60))
}
