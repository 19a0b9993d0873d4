package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

/* ─── Profile ledger ─────────────────────────────────────────────────── */

// GetProfile loads a user's ledger row. Returns ErrProfileNotFound when the
// user never completed the wizard.
func (s *PG) GetProfile(ctx context.Context, userID int64) (Profile, error) {
	p, err := queryOne[Profile](s.pool, ctx,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

// UpsertProfile writes the whole row; the UNIQUE user_id means re-running the
// wizard replaces the previous profile in place.
func (s *PG) UpsertProfile(ctx context.Context, p Profile) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, gender, weight_kg, height_cm, age_years,
		                       activity_minutes, city, water_goal_ml, calorie_goal_kcal,
		                       logged_water_ml, logged_calories_kcal, burned_calories_kcal,
		                       last_reset_date)
		 VALUES (@userID, @gender, @weightKG, @heightCM, @ageYears,
		         @activityMinutes, @city, @waterGoalML, @calorieGoalKcal,
		         @loggedWaterML, @loggedCaloriesKcal, @burnedCaloriesKcal,
		         @lastResetDate)
		 ON CONFLICT (user_id) DO UPDATE SET
			gender               = EXCLUDED.gender,
			weight_kg            = EXCLUDED.weight_kg,
			height_cm            = EXCLUDED.height_cm,
			age_years            = EXCLUDED.age_years,
			activity_minutes     = EXCLUDED.activity_minutes,
			city                 = EXCLUDED.city,
			water_goal_ml        = EXCLUDED.water_goal_ml,
			calorie_goal_kcal    = EXCLUDED.calorie_goal_kcal,
			logged_water_ml      = EXCLUDED.logged_water_ml,
			logged_calories_kcal = EXCLUDED.logged_calories_kcal,
			burned_calories_kcal = EXCLUDED.burned_calories_kcal,
			last_reset_date      = EXCLUDED.last_reset_date,
			updated_at           = now()`,
		pgx.NamedArgs{
			"userID": p.UserID, "gender": p.Gender, "weightKG": p.WeightKG,
			"heightCM": p.HeightCM, "ageYears": p.AgeYears,
			"activityMinutes": p.ActivityMinutes, "city": p.City,
			"waterGoalML": p.WaterGoalML, "calorieGoalKcal": p.CalorieGoalKcal,
			"loggedWaterML": p.LoggedWaterML, "loggedCaloriesKcal": p.LoggedCaloriesKcal,
			"burnedCaloriesKcal": p.BurnedCaloriesKcal,
			"lastResetDate":      p.LastResetDate.Time.Format("2006-01-02"),
		})
	return err
}

// ApplyDailyRollover zeroes the running totals and advances last_reset_date
// the first time any command touches the row on a new calendar day. A single
// conditional UPDATE keeps it atomic; a no-op when the date already matches
// or the profile doesn't exist (the command's own profile check reports that).
func (s *PG) ApplyDailyRollover(ctx context.Context, userID int64, today time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE profiles SET
			logged_water_ml      = 0,
			logged_calories_kcal = 0,
			burned_calories_kcal = 0,
			last_reset_date      = @today,
			updated_at           = now()
		 WHERE user_id = @userID AND last_reset_date <> @today`,
		pgx.NamedArgs{"userID": userID, "today": today.Format("2006-01-02")})
	return err
}

// AddWater atomically increments logged water and returns the updated row.
func (s *PG) AddWater(ctx context.Context, userID int64, amountML float64) (Profile, error) {
	return s.increment(ctx, userID, "logged_water_ml", amountML)
}

// AddCalories atomically increments logged calories and returns the updated row.
func (s *PG) AddCalories(ctx context.Context, userID int64, kcal float64) (Profile, error) {
	return s.increment(ctx, userID, "logged_calories_kcal", kcal)
}

// AddBurned atomically increments burned calories and returns the updated row.
func (s *PG) AddBurned(ctx context.Context, userID int64, kcal float64) (Profile, error) {
	return s.increment(ctx, userID, "burned_calories_kcal", kcal)
}

// increment is the shared single-row UPDATE behind the Add* methods. The
// column name comes from a fixed caller-side set, never from user input.
func (s *PG) increment(ctx context.Context, userID int64, column string, delta float64) (Profile, error) {
	p, err := queryOne[Profile](s.pool, ctx,
		`UPDATE profiles SET `+column+` = `+column+` + @delta, updated_at = now()
		 WHERE user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "delta": delta})
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	}
	return p, err
}

/* ─── Append-only event logs ─────────────────────────────────────────── */

// AppendWaterEvent records one immutable water intake fact.
func (s *PG) AppendWaterEvent(ctx context.Context, userID int64, amountML float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO water_events (id, user_id, amount_ml) VALUES (@id, @userID, @amountML)`,
		pgx.NamedArgs{"id": uuid.New().String(), "userID": userID, "amountML": amountML})
	return err
}

// AppendFoodEvent records one immutable food intake fact.
func (s *PG) AppendFoodEvent(ctx context.Context, userID int64, kcal float64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO food_events (id, user_id, calories_kcal) VALUES (@id, @userID, @kcal)`,
		pgx.NamedArgs{"id": uuid.New().String(), "userID": userID, "kcal": kcal})
	return err
}

// WaterEventsSince returns a user's water events at or after since, oldest
// first, ready for cumulative charting.
func (s *PG) WaterEventsSince(ctx context.Context, userID int64, since time.Time) ([]WaterEvent, error) {
	return queryMany[WaterEvent](s.pool, ctx,
		`SELECT * FROM water_events
		 WHERE user_id = @userID AND logged_at >= @since
		 ORDER BY logged_at ASC`,
		pgx.NamedArgs{"userID": userID, "since": since})
}

// FoodEventsSince returns a user's food events at or after since, oldest first.
func (s *PG) FoodEventsSince(ctx context.Context, userID int64, since time.Time) ([]FoodEvent, error) {
	return queryMany[FoodEvent](s.pool, ctx,
		`SELECT * FROM food_events
		 WHERE user_id = @userID AND logged_at >= @since
		 ORDER BY logged_at ASC`,
		pgx.NamedArgs{"userID": userID, "since": since})
}
