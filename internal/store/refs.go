package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

/* ─── Reference tables ───────────────────────────────────────────────── */

// WorkoutTypes returns the curated workout cost table. An empty slice means
// the table was never seeded; callers reply "unavailable".
func (s *PG) WorkoutTypes(ctx context.Context) ([]WorkoutType, error) {
	return queryMany[WorkoutType](s.pool, ctx,
		"SELECT * FROM workout_types ORDER BY name", nil)
}

// FoodItems returns the packaged-food fallback table.
func (s *PG) FoodItems(ctx context.Context) ([]FoodItem, error) {
	return queryMany[FoodItem](s.pool, ctx,
		"SELECT * FROM food_items ORDER BY name", nil)
}

// RandomHealthFoods samples up to n rows of the suggestion table. Sampling
// in SQL keeps the handler free of its own RNG.
func (s *PG) RandomHealthFoods(ctx context.Context, n int) ([]HealthFood, error) {
	return queryMany[HealthFood](s.pool, ctx,
		"SELECT * FROM health_foods ORDER BY random() LIMIT @n",
		pgx.NamedArgs{"n": n})
}

/* ─── Seeding (cmd/seed-refs) ────────────────────────────────────────── */

// ReplaceWorkoutTypes reloads the workout table wholesale inside one
// transaction, so readers never observe a half-seeded table.
func (s *PG) ReplaceWorkoutTypes(ctx context.Context, rows []WorkoutType) error {
	return s.replaceAll(ctx, "workout_types", func(tx pgx.Tx) error {
		for _, r := range rows {
			_, err := tx.Exec(ctx,
				`INSERT INTO workout_types (name, kcal_per_hour, water_ml_per_hour, hot_extra_ml_per_hour)
				 VALUES (@name, @kcal, @water, @hotExtra)`,
				pgx.NamedArgs{"name": r.Name, "kcal": r.KcalPerHour,
					"water": r.WaterMLPerHour, "hotExtra": r.HotExtraMLPerHour})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceFoodItems reloads the packaged-food table wholesale.
func (s *PG) ReplaceFoodItems(ctx context.Context, rows []FoodItem) error {
	return s.replaceAll(ctx, "food_items", func(tx pgx.Tx) error {
		for _, r := range rows {
			_, err := tx.Exec(ctx,
				"INSERT INTO food_items (name, kcal_per_100g) VALUES (@name, @kcal)",
				pgx.NamedArgs{"name": r.Name, "kcal": r.KcalPer100g})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceHealthFoods reloads the suggestion table wholesale.
func (s *PG) ReplaceHealthFoods(ctx context.Context, rows []HealthFood) error {
	return s.replaceAll(ctx, "health_foods", func(tx pgx.Tx) error {
		for _, r := range rows {
			_, err := tx.Exec(ctx,
				"INSERT INTO health_foods (name, kcal_per_100g) VALUES (@name, @kcal)",
				pgx.NamedArgs{"name": r.Name, "kcal": r.KcalPer100g})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// replaceAll truncates table and runs insert inside a single transaction.
func (s *PG) replaceAll(ctx context.Context, table string, insert func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE "+table); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
