package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Draft kinds: the profile wizard and the two-step food logging follow-up.
const (
	DraftProfile = "profile"
	DraftFood    = "food"
)

// Profile wizard and food follow-up steps. A draft is always waiting for
// exactly one input.
const (
	StepGender         = "gender"
	StepWeight         = "weight"
	StepHeight         = "height"
	StepAge            = "age"
	StepActivity       = "activity"
	StepCity           = "city"
	StepCalorieMode    = "calorie_mode"
	StepManualCalories = "manual_calories"
	StepFoodGrams      = "food_grams"
	StepFoodManual     = "food_manual_kcal"
)

// Draft is transient per-user state collected across a multi-step exchange.
// It is not visible to any command until the wizard finalizes into a
// profile upsert (or, for food, a calorie increment).
type Draft struct {
	UserID          int64     `db:"user_id"`
	Kind            string    `db:"kind"`
	Step            string    `db:"step"`
	Gender          string    `db:"gender"`
	WeightKG        float64   `db:"weight_kg"`
	HeightCM        int       `db:"height_cm"`
	AgeYears        int       `db:"age_years"`
	ActivityMinutes int       `db:"activity_minutes"`
	City            string    `db:"city"`
	PendingFoodName string    `db:"pending_food_name"`
	PendingFoodKcal float64   `db:"pending_food_kcal"`
	ExpiresAt       time.Time `db:"expires_at"`
}

// DraftStore holds pending wizard state keyed by user. Implementations must
// expire drafts so an abandoned flow doesn't linger forever.
type DraftStore interface {
	Get(ctx context.Context, userID int64) (Draft, error)
	Put(ctx context.Context, d Draft) error
	Delete(ctx context.Context, userID int64) error
}

/* ─── In-memory implementation (long-poll adapter) ───────────────────── */

// MemoryDraftStore keeps drafts in process memory, pruning expired entries
// lazily on access. Suitable only for the single-process poll deployment.
type MemoryDraftStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	drafts map[int64]Draft
	now    func() time.Time
}

// NewMemoryDraftStore creates a store whose drafts expire after ttl.
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		ttl:    ttl,
		drafts: make(map[int64]Draft),
		now:    time.Now,
	}
}

func (m *MemoryDraftStore) Get(_ context.Context, userID int64) (Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.drafts[userID]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if m.now().After(d.ExpiresAt) {
		delete(m.drafts, userID)
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

func (m *MemoryDraftStore) Put(_ context.Context, d Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.ExpiresAt = m.now().Add(m.ttl)
	m.drafts[d.UserID] = d
	return nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, userID)
	return nil
}

/* ─── Postgres implementation (webhook adapter) ──────────────────────── */

// PGDraftStore persists drafts so stateless webhook invocations share the
// wizard state. Expiry is the same lazy policy as the memory store: expired
// rows are simply not returned.
type PGDraftStore struct {
	pg  *PG
	ttl time.Duration
}

// NewPGDraftStore creates a Postgres-backed store whose drafts expire after ttl.
func NewPGDraftStore(pg *PG, ttl time.Duration) *PGDraftStore {
	return &PGDraftStore{pg: pg, ttl: ttl}
}

func (s *PGDraftStore) Get(ctx context.Context, userID int64) (Draft, error) {
	d, err := queryOne[Draft](s.pg.pool, ctx,
		"SELECT * FROM profile_drafts WHERE user_id = @userID AND expires_at > now()",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, pgx.ErrNoRows) {
		return Draft{}, ErrDraftNotFound
	}
	return d, err
}

func (s *PGDraftStore) Put(ctx context.Context, d Draft) error {
	_, err := s.pg.pool.Exec(ctx,
		`INSERT INTO profile_drafts (user_id, kind, step, gender, weight_kg, height_cm,
		                             age_years, activity_minutes, city,
		                             pending_food_name, pending_food_kcal, expires_at)
		 VALUES (@userID, @kind, @step, @gender, @weightKG, @heightCM,
		         @ageYears, @activityMinutes, @city,
		         @pendingFoodName, @pendingFoodKcal, @expiresAt)
		 ON CONFLICT (user_id) DO UPDATE SET
			kind              = EXCLUDED.kind,
			step              = EXCLUDED.step,
			gender            = EXCLUDED.gender,
			weight_kg         = EXCLUDED.weight_kg,
			height_cm         = EXCLUDED.height_cm,
			age_years         = EXCLUDED.age_years,
			activity_minutes  = EXCLUDED.activity_minutes,
			city              = EXCLUDED.city,
			pending_food_name = EXCLUDED.pending_food_name,
			pending_food_kcal = EXCLUDED.pending_food_kcal,
			expires_at        = EXCLUDED.expires_at`,
		pgx.NamedArgs{
			"userID": d.UserID, "kind": d.Kind, "step": d.Step,
			"gender": d.Gender, "weightKG": d.WeightKG, "heightCM": d.HeightCM,
			"ageYears": d.AgeYears, "activityMinutes": d.ActivityMinutes,
			"city":            d.City,
			"pendingFoodName": d.PendingFoodName, "pendingFoodKcal": d.PendingFoodKcal,
			"expiresAt": time.Now().Add(s.ttl),
		})
	return err
}

func (s *PGDraftStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.pg.pool.Exec(ctx,
		"DELETE FROM profile_drafts WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	return err
}
