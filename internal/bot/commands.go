package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"hydrofit-bot/internal/chart"
	"hydrofit-bot/internal/formula"
	"hydrofit-bot/internal/fuzzy"
	"hydrofit-bot/internal/lookup"
	"hydrofit-bot/internal/store"
)

// Activity suggestions for /tip when the user is over their calorie goal.
const (
	walkRateKcalPerHour = 350
	runRateKcalPerHour  = 680
	walkExcessThreshold = 500
	maxSuggestedMinutes = 90
)

func (s *Service) start(firstName string) []Reply {
	if firstName == "" {
		firstName = "friend"
	}
	text := fmt.Sprintf(
		"Hi, %s! 👋\n"+
			"I'll help you track your water, food and workouts.\n"+
			"Start by filling in your profile with /set_profile.\n"+
			"Send /help to see all commands.", firstName)
	return []Reply{{Text: text, ShowMenu: true}}
}

func (s *Service) help() []Reply {
	return replyText(
		"Available commands:\n" +
			"/start – greeting\n" +
			"/help – this list\n" +
			"/set_profile – set up your profile\n" +
			"/log_water <ml> – record water you drank\n" +
			"/log_food <product name> – record food you ate\n" +
			"/log_workout <type> <minutes> – record a workout\n" +
			"/check_progress – water and calories vs. your goals\n" +
			"/profile – your saved profile\n" +
			"/stats – today's water and food charts\n" +
			"/tip – a health suggestion for the rest of the day")
}

// logWater records a water intake: ledger increment plus one immutable
// event-log row. Malformed input never mutates anything.
func (s *Service) logWater(ctx context.Context, userID int64, args string) []Reply {
	amount, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || amount <= 0 {
		return replyText("Usage: /log_water <ml>")
	}

	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}

	p, err := s.store.AddWater(ctx, userID, float64(amount))
	if errors.Is(err, store.ErrProfileNotFound) {
		return replyText(msgNeedProfile)
	}
	if err != nil {
		return s.failure(err)
	}

	if err := s.store.AppendWaterEvent(ctx, userID, float64(amount)); err != nil {
		// The ledger total is already committed at this point.
		log.Printf("[bot] append water event for %d: %v", userID, err)
	}

	remaining := math.Max(p.WaterGoalML-p.LoggedWaterML, 0)
	return replyText(fmt.Sprintf(
		"💧 Logged: %s ml\n🎯 Remaining to goal: %s ml",
		fmtFloat(p.LoggedWaterML), fmtFloat(remaining)))
}

// logWorkout fuzzy-matches the workout type, prices it from the reference
// table, and adds the burn to the ledger. The water advice includes a hot
// weather bonus when the user's city is above 25°C.
func (s *Service) logWorkout(ctx context.Context, userID int64, args string) []Reply {
	const usage = "Usage: /log_workout <type> <minutes>\nExample: /log_workout running 30"

	fields := strings.Fields(args)
	if len(fields) < 2 {
		return replyText(usage)
	}
	minutes, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || minutes <= 0 {
		return replyText(usage)
	}
	typeName := strings.Join(fields[:len(fields)-1], " ")

	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}
	p, fail := s.requireProfile(ctx, userID)
	if fail != nil {
		return fail
	}

	workouts, err := s.store.WorkoutTypes(ctx)
	if err != nil {
		return s.failure(err)
	}
	if len(workouts) == 0 {
		return replyText("The workout database is unavailable")
	}

	names := make([]string, len(workouts))
	for i, w := range workouts {
		names[i] = w.Name
	}
	idx, ok := fuzzy.BestMatch(typeName, names, fuzzy.DefaultCutoff)
	if !ok {
		return replyText(fmt.Sprintf(
			"I don't know the workout %q.\nKnown workouts: %s",
			typeName, strings.Join(names, ", ")))
	}
	w := workouts[idx]

	burned := formula.HourlyCost(w.KcalPerHour, minutes)
	water := formula.HourlyCost(w.WaterMLPerHour, minutes)

	temp, tempErr := s.weather.CityTemperature(ctx, p.City)
	if tempErr != nil {
		log.Printf("[bot] weather lookup for %q: %v", p.City, tempErr)
	} else if temp > 25 {
		water += formula.HourlyCost(w.HotExtraMLPerHour, minutes)
	}

	if _, err := s.store.AddBurned(ctx, userID, float64(burned)); err != nil {
		return s.failure(err)
	}

	text := fmt.Sprintf(
		"💪 %s for %d min — %d kcal burned\n💧 Drink an extra %d ml",
		w.Name, minutes, burned, water)
	if tempErr == nil {
		text += fmt.Sprintf("\n🌡 %s is at %.1f°C right now", p.City, temp)
	}
	return replyText(text)
}

// logFood resolves a product (remote search first, local fuzzy table as
// fallback) and parks a draft asking for grams, or for manual calories when
// nothing matched.
func (s *Service) logFood(ctx context.Context, userID int64, args string) []Reply {
	name := strings.TrimSpace(args)
	if name == "" {
		return replyText("Usage: /log_food <product name>")
	}

	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}
	if _, fail := s.requireProfile(ctx, userID); fail != nil {
		return fail
	}

	food, found := s.resolveFood(ctx, name)

	d := store.Draft{UserID: userID, Kind: store.DraftFood}
	if found {
		d.Step = store.StepFoodGrams
		d.PendingFoodName = food.Name
		d.PendingFoodKcal = food.KcalPer100g
		if err := s.drafts.Put(ctx, d); err != nil {
			return s.failure(err)
		}
		return replyText(fmt.Sprintf(
			"🍽 %s — %s kcal per 100 g.\nHow many grams did you eat?",
			food.Name, fmtFloat(food.KcalPer100g)))
	}

	d.Step = store.StepFoodManual
	if err := s.drafts.Put(ctx, d); err != nil {
		return s.failure(err)
	}
	return replyText("Couldn't find that product 😕\nEnter the calories you consumed:")
}

// resolveFood tries the remote search, then the local fuzzy fallback.
func (s *Service) resolveFood(ctx context.Context, name string) (lookup.Food, bool) {
	food, err := s.food.Search(ctx, name)
	if err == nil {
		return food, true
	}
	if !errors.Is(err, lookup.ErrNotFound) {
		log.Printf("[bot] food search for %q: %v", name, err)
	}

	items, err := s.store.FoodItems(ctx)
	if err != nil {
		log.Printf("[bot] load food items: %v", err)
		return lookup.Food{}, false
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	idx, ok := fuzzy.BestMatch(name, names, fuzzy.DefaultCutoff)
	if !ok {
		return lookup.Food{}, false
	}
	return lookup.Food{Name: items[idx].Name, KcalPer100g: items[idx].KcalPer100g}, true
}

// checkProgress reports today's totals against the goals, remaining floored
// at zero.
func (s *Service) checkProgress(ctx context.Context, userID int64) []Reply {
	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}
	p, fail := s.requireProfile(ctx, userID)
	if fail != nil {
		return fail
	}

	waterLeft := math.Max(p.WaterGoalML-p.LoggedWaterML, 0)
	caloriesLeft := math.Max(float64(p.CalorieGoalKcal)-p.LoggedCaloriesKcal, 0)

	return replyText(fmt.Sprintf(
		"📊 Progress:\n\n"+
			"💧 Water:\n"+
			"- Drunk: %.0f ml of %.0f ml\n"+
			"- Remaining: %.0f ml\n\n"+
			"🔥 Calories:\n"+
			"- Consumed: %.0f kcal of %d kcal\n"+
			"- Remaining: %.0f kcal\n"+
			"🏃 Burned: %.0f kcal",
		p.LoggedWaterML, p.WaterGoalML, waterLeft,
		p.LoggedCaloriesKcal, p.CalorieGoalKcal, caloriesLeft,
		p.BurnedCaloriesKcal))
}

// profileInfo shows the stored profile fields.
func (s *Service) profileInfo(ctx context.Context, userID int64, firstName string) []Reply {
	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}
	p, fail := s.requireProfile(ctx, userID)
	if fail != nil {
		return fail
	}

	gender := "Male"
	if p.Gender == formula.GenderFemale {
		gender = "Female"
	}
	if firstName == "" {
		firstName = "you"
	}
	return replyText(fmt.Sprintf(
		"Profile for %s\n"+
			"📋 Gender: %s\n"+
			"⚖️ Weight: %s kg\n"+
			"📏 Height: %d cm\n"+
			"🎂 Age: %d\n"+
			"🏃 Activity: %d min/day\n"+
			"🏙 City: %s",
		firstName, gender, fmtFloat(p.WeightKG), p.HeightCM,
		p.AgeYears, p.ActivityMinutes, p.City))
}

// stats renders one cumulative chart per metric for today's events. A metric
// with nothing logged gets an informational line instead of a chart.
func (s *Service) stats(ctx context.Context, userID int64) []Reply {
	p, fail := s.requireProfile(ctx, userID)
	if fail != nil {
		return fail
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var replies []Reply

	waterEvents, err := s.store.WaterEventsSince(ctx, userID, dayStart)
	if err != nil {
		return s.failure(err)
	}
	if len(waterEvents) == 0 {
		replies = append(replies, Reply{Text: "No water logged today"})
	} else {
		amounts := make([]float64, len(waterEvents))
		for i, e := range waterEvents {
			amounts[i] = e.AmountML
		}
		replies = append(replies, s.renderChart(
			"Water today", "ml", amounts, p.WaterGoalML,
			fmt.Sprintf("Goal: %s ml", fmtFloat(p.WaterGoalML)), "water.png"))
	}

	foodEvents, err := s.store.FoodEventsSince(ctx, userID, dayStart)
	if err != nil {
		return s.failure(err)
	}
	if len(foodEvents) == 0 {
		replies = append(replies, Reply{Text: "No food logged today"})
	} else {
		amounts := make([]float64, len(foodEvents))
		for i, e := range foodEvents {
			amounts[i] = e.CaloriesKcal
		}
		replies = append(replies, s.renderChart(
			"Calories today", "kcal", amounts, float64(p.CalorieGoalKcal),
			fmt.Sprintf("Goal: %d kcal", p.CalorieGoalKcal), "calories.png"))
	}

	return replies
}

// renderChart wraps chart rendering so a drawing failure degrades to text.
func (s *Service) renderChart(title, series string, amounts []float64, goal float64, goalLabel, filename string) Reply {
	png, err := chart.Cumulative(title, series, amounts, goal, goalLabel)
	if err != nil {
		log.Printf("[bot] render %s: %v", filename, err)
		return Reply{Text: "Couldn't draw the chart, sorry."}
	}
	return Reply{Photo: png, PhotoName: filename, Text: title}
}

// tip suggests food while the calorie budget has room, or an activity to
// burn off the excess once it doesn't.
func (s *Service) tip(ctx context.Context, userID int64) []Reply {
	if err := s.store.ApplyDailyRollover(ctx, userID, s.now()); err != nil {
		return s.failure(err)
	}
	p, fail := s.requireProfile(ctx, userID)
	if fail != nil {
		return fail
	}

	delta := float64(p.CalorieGoalKcal) - p.LoggedCaloriesKcal

	if delta > 0 {
		foods, err := s.store.RandomHealthFoods(ctx, 3)
		if err != nil {
			return s.failure(err)
		}
		if len(foods) == 0 {
			return replyText("The health food database is unavailable")
		}
		var b strings.Builder
		fmt.Fprintf(&b, "🥗 You still have room today!\nRemaining to goal: %.0f kcal\n\nSuggestions:\n", delta)
		for _, f := range foods {
			fmt.Fprintf(&b, "• %s — %s kcal / 100 g\n", f.Name, fmtFloat(f.KcalPer100g))
		}
		return replyText(b.String())
	}

	excess := -delta
	rate, activity := float64(runRateKcalPerHour), "🏃 Running"
	if excess <= walkExcessThreshold {
		rate, activity = float64(walkRateKcalPerHour), "🚶 Brisk walk"
	}
	minutes := int(math.Round(excess / rate * 60))
	if minutes > maxSuggestedMinutes {
		minutes = maxSuggestedMinutes
	}

	return replyText(fmt.Sprintf(
		"🔥 You are %.0f kcal over your goal\n%s\n⏱ Suggested duration: %d minutes",
		excess, activity, minutes))
}
