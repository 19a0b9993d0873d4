package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"hydrofit-bot/internal/formula"
	"hydrofit-bot/internal/store"
)

// The profile wizard is a strictly linear flow: gender, weight, height,
// age, activity minutes, city, then the calorie goal (manual or computed).
// Answers accumulate in a draft; nothing touches the ledger until finalize.

const msgSessionExpired = "That session has expired. Start again with /set_profile."

func genderButtons() [][]Button {
	return [][]Button{{
		{Text: "👨 Male", Data: "gender_male"},
		{Text: "👩 Female", Data: "gender_female"},
	}}
}

func calorieModeButtons() [][]Button {
	return [][]Button{{
		{Text: "✍ Enter manually", Data: "calories_manual"},
		{Text: "⚙ Compute automatically", Data: "calories_auto"},
	}}
}

// startWizard begins (or restarts) the profile flow for a user.
func (s *Service) startWizard(ctx context.Context, userID int64) []Reply {
	d := store.Draft{UserID: userID, Kind: store.DraftProfile, Step: store.StepGender}
	if err := s.drafts.Put(ctx, d); err != nil {
		return s.failure(err)
	}
	return []Reply{{Text: "Let's set up your profile. What's your gender?", Buttons: genderButtons()}}
}

// HandleCallback routes inline-button presses: the gender choice and the
// calorie-goal mode. Unknown or stale callback data gets the expired reply.
func (s *Service) HandleCallback(ctx context.Context, userID int64, data string) []Reply {
	d, err := s.drafts.Get(ctx, userID)
	if errors.Is(err, store.ErrDraftNotFound) {
		return replyText(msgSessionExpired)
	}
	if err != nil {
		return s.failure(err)
	}

	switch {
	case strings.HasPrefix(data, "gender_") && d.Step == store.StepGender:
		return s.setGender(ctx, d, strings.TrimPrefix(data, "gender_"))
	case data == "calories_manual" && d.Step == store.StepCalorieMode:
		d.Step = store.StepManualCalories
		if err := s.drafts.Put(ctx, d); err != nil {
			return s.failure(err)
		}
		return replyText("Enter your desired daily calorie goal:")
	case data == "calories_auto" && d.Step == store.StepCalorieMode:
		return s.finalizeAuto(ctx, d)
	default:
		return replyText(msgSessionExpired)
	}
}

// continueDraft handles a plain-text answer to whatever step is pending.
// Invalid input re-prompts the same step without advancing.
func (s *Service) continueDraft(ctx context.Context, userID int64, input string) []Reply {
	d, err := s.drafts.Get(ctx, userID)
	if errors.Is(err, store.ErrDraftNotFound) {
		return replyText("I wasn't expecting that — see /help for commands.")
	}
	if err != nil {
		return s.failure(err)
	}

	switch d.Step {
	case store.StepGender:
		// Buttons are the expected path, but typed answers work too.
		gender, ok := parseGender(input)
		if !ok {
			return []Reply{{Text: "Please choose your gender:", Buttons: genderButtons()}}
		}
		return s.setGender(ctx, d, gender)

	case store.StepWeight:
		weight, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
		if err != nil || weight <= 0 {
			return replyText("Please enter a number (e.g. 70)")
		}
		d.WeightKG = weight
		d.Step = store.StepHeight
		return s.advance(ctx, d, "Enter your height (cm):")

	case store.StepHeight:
		height, err := strconv.Atoi(input)
		if err != nil || height <= 0 {
			return replyText("Please enter a whole number (e.g. 175)")
		}
		d.HeightCM = height
		d.Step = store.StepAge
		return s.advance(ctx, d, "Enter your age:")

	case store.StepAge:
		age, err := strconv.Atoi(input)
		if err != nil || age <= 0 {
			return replyText("Please enter a whole number (e.g. 30)")
		}
		d.AgeYears = age
		d.Step = store.StepActivity
		return s.advance(ctx, d, "How many minutes of activity do you get per day?")

	case store.StepActivity:
		minutes, err := strconv.Atoi(input)
		if err != nil || minutes < 0 {
			return replyText("Please enter a number (e.g. 60)")
		}
		d.ActivityMinutes = minutes
		d.Step = store.StepCity
		return s.advance(ctx, d, "Which city are you in?")

	case store.StepCity:
		if input == "" {
			return replyText("Please enter your city:")
		}
		d.City = input
		d.Step = store.StepCalorieMode
		if err := s.drafts.Put(ctx, d); err != nil {
			return s.failure(err)
		}
		return []Reply{{Text: "How should we set your calorie goal?", Buttons: calorieModeButtons()}}

	case store.StepCalorieMode:
		// Typed fallback for the buttons.
		switch strings.ToLower(input) {
		case "manual":
			d.Step = store.StepManualCalories
			return s.advance(ctx, d, "Enter your desired daily calorie goal:")
		case "auto", "automatic":
			return s.finalizeAuto(ctx, d)
		default:
			return []Reply{{Text: "How should we set your calorie goal?", Buttons: calorieModeButtons()}}
		}

	case store.StepManualCalories:
		goal, err := strconv.Atoi(input)
		if err != nil || goal <= 0 {
			return replyText("Please enter a whole number (e.g. 2000)")
		}
		return s.finalizeProfile(ctx, d, goal)

	case store.StepFoodGrams:
		grams, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
		if err != nil || grams <= 0 {
			return replyText("Please enter a number (grams):")
		}
		// kcal/100g × grams / 100, rounded to one decimal.
		kcal := math.Round(d.PendingFoodKcal*grams/100*10) / 10
		return s.finishFood(ctx, d, kcal, fmt.Sprintf("✅ Logged: %s kcal", fmtFloat(kcal)))

	case store.StepFoodManual:
		kcal, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
		if err != nil || kcal <= 0 {
			return replyText("Please enter a number (kcal):")
		}
		return s.finishFood(ctx, d, kcal, fmt.Sprintf("✅ Logged manually: %s kcal", fmtFloat(kcal)))

	default:
		return replyText(msgSessionExpired)
	}
}

// advance persists the draft and prompts for the next field.
func (s *Service) advance(ctx context.Context, d store.Draft, prompt string) []Reply {
	if err := s.drafts.Put(ctx, d); err != nil {
		return s.failure(err)
	}
	return replyText(prompt)
}

func (s *Service) setGender(ctx context.Context, d store.Draft, gender string) []Reply {
	if gender != formula.GenderMale && gender != formula.GenderFemale {
		return replyText(msgSessionExpired)
	}
	d.Gender = gender
	d.Step = store.StepWeight
	if err := s.drafts.Put(ctx, d); err != nil {
		return s.failure(err)
	}
	display := "male"
	if gender == formula.GenderFemale {
		display = "female"
	}
	return []Reply{
		{Text: "Your gender: " + display},
		{Text: "Enter your weight (kg):"},
	}
}

// finalizeAuto derives the calorie goal from BMR and the activity multiplier.
func (s *Service) finalizeAuto(ctx context.Context, d store.Draft) []Reply {
	bmr := formula.BMR(d.Gender, d.WeightKG, d.HeightCM, d.AgeYears)
	goal := formula.CalorieGoal(bmr, formula.ActivityMultiplier(d.ActivityMinutes))
	return s.finalizeProfile(ctx, d, goal)
}

// finalizeProfile commits the collected draft as the user's ledger row. Only
// here does the profile become visible to other commands.
func (s *Service) finalizeProfile(ctx context.Context, d store.Draft, calorieGoal int) []Reply {
	p := store.Profile{
		UserID:          d.UserID,
		Gender:          d.Gender,
		WeightKG:        d.WeightKG,
		HeightCM:        d.HeightCM,
		AgeYears:        d.AgeYears,
		ActivityMinutes: d.ActivityMinutes,
		City:            d.City,
		WaterGoalML:     formula.WaterNormML(d.WeightKG),
		CalorieGoalKcal: calorieGoal,
		LastResetDate:   store.DateOnly{Time: s.now()},
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return s.failure(err)
	}
	if err := s.drafts.Delete(ctx, d.UserID); err != nil {
		log.Printf("[bot] delete draft for %d: %v", d.UserID, err)
	}
	return replyText(fmt.Sprintf(
		"Profile saved ✅\n🔥 Calories: %d kcal\n💧 Water: %s ml",
		p.CalorieGoalKcal, fmtFloat(p.WaterGoalML)))
}

// finishFood applies the computed calories and clears the pending food draft.
func (s *Service) finishFood(ctx context.Context, d store.Draft, kcal float64, confirmation string) []Reply {
	if err := s.store.ApplyDailyRollover(ctx, d.UserID, s.now()); err != nil {
		return s.failure(err)
	}
	if _, err := s.store.AddCalories(ctx, d.UserID, kcal); err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return replyText(msgNeedProfile)
		}
		return s.failure(err)
	}
	if err := s.store.AppendFoodEvent(ctx, d.UserID, kcal); err != nil {
		log.Printf("[bot] append food event for %d: %v", d.UserID, err)
	}
	if err := s.drafts.Delete(ctx, d.UserID); err != nil {
		log.Printf("[bot] delete draft for %d: %v", d.UserID, err)
	}
	return replyText(confirmation)
}

func parseGender(input string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "m", "male":
		return formula.GenderMale, true
	case "f", "female":
		return formula.GenderFemale, true
	default:
		return "", false
	}
}
