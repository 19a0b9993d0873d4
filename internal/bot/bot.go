// Package bot is the platform-independent core: one handler per chat
// command, the profile wizard, and the food/workout logging flows. The
// transport adapters (long-poll and webhook) only convert updates into
// calls here and render the returned replies.
package bot

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"hydrofit-bot/internal/lookup"
	"hydrofit-bot/internal/store"
)

// Store is the ledger surface the handlers need. *store.PG implements it;
// tests substitute an in-memory fake.
type Store interface {
	GetProfile(ctx context.Context, userID int64) (store.Profile, error)
	UpsertProfile(ctx context.Context, p store.Profile) error
	ApplyDailyRollover(ctx context.Context, userID int64, today time.Time) error
	AddWater(ctx context.Context, userID int64, amountML float64) (store.Profile, error)
	AddCalories(ctx context.Context, userID int64, kcal float64) (store.Profile, error)
	AddBurned(ctx context.Context, userID int64, kcal float64) (store.Profile, error)
	AppendWaterEvent(ctx context.Context, userID int64, amountML float64) error
	AppendFoodEvent(ctx context.Context, userID int64, kcal float64) error
	WaterEventsSince(ctx context.Context, userID int64, since time.Time) ([]store.WaterEvent, error)
	FoodEventsSince(ctx context.Context, userID int64, since time.Time) ([]store.FoodEvent, error)
	WorkoutTypes(ctx context.Context) ([]store.WorkoutType, error)
	FoodItems(ctx context.Context) ([]store.FoodItem, error)
	RandomHealthFoods(ctx context.Context, n int) ([]store.HealthFood, error)
}

// TemperatureFinder is the weather collaborator. Errors mean "temperature
// unknown" and only disable the heat-dependent water bonus.
type TemperatureFinder interface {
	CityTemperature(ctx context.Context, city string) (float64, error)
}

// FoodFinder is the remote food-search collaborator, tried before the local
// fallback table.
type FoodFinder interface {
	Search(ctx context.Context, query string) (lookup.Food, error)
}

// Button is one inline keyboard button; Data round-trips through the
// platform's callback mechanism into HandleCallback.
type Button struct {
	Text string
	Data string
}

// Reply is a single outbound message: text, or a PNG photo with a caption.
type Reply struct {
	Text      string
	Photo     []byte
	PhotoName string
	Buttons   [][]Button // inline keyboard attached to this message
	ShowMenu  bool       // attach the persistent Progress/Stats keyboard
}

func replyText(text string) []Reply {
	return []Reply{{Text: text}}
}

// Service wires the handlers to their collaborators.
type Service struct {
	store   Store
	drafts  store.DraftStore
	weather TemperatureFinder
	food    FoodFinder
	now     func() time.Time // swapped in tests to pin rollover dates
}

// New builds the command service.
func New(st Store, drafts store.DraftStore, weather TemperatureFinder, food FoodFinder) *Service {
	return &Service{
		store:   st,
		drafts:  drafts,
		weather: weather,
		food:    food,
		now:     time.Now,
	}
}

// Persistent keyboard button labels, also accepted as command aliases.
const (
	menuProgress = "📈 Progress"
	menuStats    = "📊 Stats"
)

const msgNeedProfile = "Please set up your profile first: /set_profile"

// HandleMessage routes one inbound text message: keyboard aliases first,
// then slash commands, then answers to whatever multi-step flow is pending.
func (s *Service) HandleMessage(ctx context.Context, userID int64, firstName, text string) []Reply {
	trimmed := strings.TrimSpace(text)

	switch trimmed {
	case menuProgress:
		return s.checkProgress(ctx, userID)
	case menuStats:
		return s.stats(ctx, userID)
	}

	if strings.HasPrefix(trimmed, "/") {
		cmd, args := splitCommand(trimmed)
		switch cmd {
		case "/start":
			return s.start(firstName)
		case "/help":
			return s.help()
		case "/set_profile":
			return s.startWizard(ctx, userID)
		case "/log_water":
			return s.logWater(ctx, userID, args)
		case "/log_food":
			return s.logFood(ctx, userID, args)
		case "/log_workout":
			return s.logWorkout(ctx, userID, args)
		case "/check_progress":
			return s.checkProgress(ctx, userID)
		case "/profile":
			return s.profileInfo(ctx, userID, firstName)
		case "/stats":
			return s.stats(ctx, userID)
		case "/tip":
			return s.tip(ctx, userID)
		default:
			return replyText("Unknown command. See /help for the list.")
		}
	}

	return s.continueDraft(ctx, userID, trimmed)
}

// requireProfile loads the user's ledger row, translating absence into the
// uniform set-up-your-profile reply. The second return value is non-nil
// when the command must stop.
func (s *Service) requireProfile(ctx context.Context, userID int64) (store.Profile, []Reply) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, store.ErrProfileNotFound) {
		return store.Profile{}, replyText(msgNeedProfile)
	}
	if err != nil {
		return store.Profile{}, s.failure(err)
	}
	return p, nil
}

// failure logs an internal error and returns the generic reply; commands
// never surface raw errors to the chat.
func (s *Service) failure(err error) []Reply {
	log.Printf("[bot] %v", err)
	return replyText("Something went wrong, please try again later.")
}

// splitCommand separates "/log_water 300" into command and argument string,
// dropping a trailing @botname mention from the command.
func splitCommand(s string) (cmd, args string) {
	cmd = s
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		cmd, args = s[:i], strings.TrimSpace(s[i+1:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, args
}

// fmtFloat prints a float without trailing zeros: 2100 not 2100.0, 46.5 as is.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
