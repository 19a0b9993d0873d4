// CLI tool to load the reference tables (workout types, packaged foods,
// health food suggestions) from CSV files. Each table is replaced wholesale.
// Usage: go run ./cmd/seed-refs <workouts.csv> <foods.csv> <health_foods.csv>
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"hydrofit-bot/internal/store"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: seed-refs <workouts.csv> <foods.csv> <health_foods.csv>")
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := store.NewPool(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	pg := store.New(pool)

	workouts, err := readWorkouts(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	foods, err := readFoods(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", os.Args[2], err)
		os.Exit(1)
	}
	healthFoods, err := readHealthFoods(os.Args[3])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", os.Args[3], err)
		os.Exit(1)
	}

	if err := pg.ReplaceWorkoutTypes(ctx, workouts); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding workout types: %v\n", err)
		os.Exit(1)
	}
	if err := pg.ReplaceFoodItems(ctx, foods); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding food items: %v\n", err)
		os.Exit(1)
	}
	if err := pg.ReplaceHealthFoods(ctx, healthFoods); err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding health foods: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d workout types, %d food items, %d health foods.\n",
		len(workouts), len(foods), len(healthFoods))
}

// readRows parses a CSV with a header row and a fixed column count.
func readRows(path string, columns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no data rows")
	}
	return records[1:], nil
}

func readWorkouts(path string) ([]store.WorkoutType, error) {
	rows, err := readRows(path, 4)
	if err != nil {
		return nil, err
	}
	out := make([]store.WorkoutType, 0, len(rows))
	for i, row := range rows {
		kcal, err1 := strconv.ParseFloat(row[1], 64)
		water, err2 := strconv.ParseFloat(row[2], 64)
		hot, err3 := strconv.ParseFloat(row[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("row %d: non-numeric value", i+2)
		}
		out = append(out, store.WorkoutType{
			Name:              row[0],
			KcalPerHour:       kcal,
			WaterMLPerHour:    water,
			HotExtraMLPerHour: hot,
		})
	}
	return out, nil
}

func readFoods(path string) ([]store.FoodItem, error) {
	rows, err := readRows(path, 2)
	if err != nil {
		return nil, err
	}
	out := make([]store.FoodItem, 0, len(rows))
	for i, row := range rows {
		kcal, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: non-numeric value", i+2)
		}
		out = append(out, store.FoodItem{Name: row[0], KcalPer100g: kcal})
	}
	return out, nil
}

func readHealthFoods(path string) ([]store.HealthFood, error) {
	rows, err := readRows(path, 2)
	if err != nil {
		return nil, err
	}
	out := make([]store.HealthFood, 0, len(rows))
	for i, row := range rows {
		kcal, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: non-numeric value", i+2)
		}
		out = append(out, store.HealthFood{Name: row[0], KcalPer100g: kcal})
	}
	return out, nil
}
