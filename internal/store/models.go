package store

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns (OID 1082) into DateOnly.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

// SameDay reports whether the stored date falls on the same calendar day as t,
// compared by formatted date so time zones and clock components don't leak in.
func (d DateOnly) SameDay(t time.Time) bool {
	return d.Time.Format("2006-01-02") == t.Format("2006-01-02")
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// Profile maps to the profiles table: one row per Telegram user, holding
// physical attributes, derived goals, and the running daily totals.
type Profile struct {
	UserID             int64      `json:"user_id"              db:"user_id"`
	Gender             string     `json:"gender"               db:"gender"`
	WeightKG           float64    `json:"weight_kg"            db:"weight_kg"`
	HeightCM           int        `json:"height_cm"            db:"height_cm"`
	AgeYears           int        `json:"age_years"            db:"age_years"`
	ActivityMinutes    int        `json:"activity_minutes"     db:"activity_minutes"`
	City               string     `json:"city"                 db:"city"`
	WaterGoalML        float64    `json:"water_goal_ml"        db:"water_goal_ml"`
	CalorieGoalKcal    int        `json:"calorie_goal_kcal"    db:"calorie_goal_kcal"`
	LoggedWaterML      float64    `json:"logged_water_ml"      db:"logged_water_ml"`
	LoggedCaloriesKcal float64    `json:"logged_calories_kcal" db:"logged_calories_kcal"`
	BurnedCaloriesKcal float64    `json:"burned_calories_kcal" db:"burned_calories_kcal"`
	LastResetDate      DateOnly   `json:"last_reset_date"      db:"last_reset_date"`
	CreatedAt          *time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"           db:"updated_at"`
}

// WaterEvent is one immutable row of the append-only water log.
type WaterEvent struct {
	ID       string    `json:"id"        db:"id"`
	UserID   int64     `json:"user_id"   db:"user_id"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
	AmountML float64   `json:"amount_ml" db:"amount_ml"`
}

// FoodEvent is one immutable row of the append-only food log.
type FoodEvent struct {
	ID           string    `json:"id"            db:"id"`
	UserID       int64     `json:"user_id"       db:"user_id"`
	LoggedAt     time.Time `json:"logged_at"     db:"logged_at"`
	CaloriesKcal float64   `json:"calories_kcal" db:"calories_kcal"`
}

// WorkoutType is one row of the curated workout cost table.
type WorkoutType struct {
	Name              string  `json:"name"                  db:"name"`
	KcalPerHour       float64 `json:"kcal_per_hour"         db:"kcal_per_hour"`
	WaterMLPerHour    float64 `json:"water_ml_per_hour"     db:"water_ml_per_hour"`
	HotExtraMLPerHour float64 `json:"hot_extra_ml_per_hour" db:"hot_extra_ml_per_hour"`
}

// FoodItem is one row of the curated packaged-food table, used as the local
// fallback when the remote food search finds nothing.
type FoodItem struct {
	Name        string  `json:"name"          db:"name"`
	KcalPer100g float64 `json:"kcal_per_100g" db:"kcal_per_100g"`
}

// HealthFood is one row of the curated suggestion table behind /tip.
type HealthFood struct {
	Name        string  `json:"name"          db:"name"`
	KcalPer100g float64 `json:"kcal_per_100g" db:"kcal_per_100g"`
}
