package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/repository"
)

// mockStore is an in-memory implementation of all three repository
// interfaces, mirroring how the one sqlite.DB serves them in production.
// A single mutex guards every method so the store itself is safe under the
// concurrent tests — any double-counting they catch is the service's fault,
// not the mock's.
type mockStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	habits  map[string]*model.Habit
	records map[string]*model.HabitRecord
	nextID  int
}

func newMockStore() *mockStore {
	return &mockStore{
		users:   make(map[string]*model.User),
		habits:  make(map[string]*model.Habit),
		records: make(map[string]*model.HabitRecord),
	}
}

// genID must be called with mu held.
func (m *mockStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

// === UserRepository ===

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
		if u.Username == user.Username {
			return apperror.Conflict("user", "username already taken")
		}
	}
	user.ID = m.genID("user")
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockStore) UpdateUsername(_ context.Context, id, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	u.Username = username
	result := *u
	return &result, nil
}

func (m *mockStore) AdjustTotalXP(_ context.Context, id string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return 0, apperror.NotFound("user", id)
	}
	u.TotalXP += delta
	if u.TotalXP < 0 {
		u.TotalXP = 0
	}
	return u.TotalXP, nil
}

// === HabitRepository ===

func (m *mockStore) CreateHabit(_ context.Context, habit *model.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	habit.ID = m.genID("habit")
	stored := *habit
	m.habits[habit.ID] = &stored
	return nil
}

func (m *mockStore) GetHabitByID(_ context.Context, id string) (*model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.habits[id]
	if !ok {
		return nil, apperror.NotFound("habit", id)
	}
	result := *h
	return &result, nil
}

func (m *mockStore) ListHabitsByUser(_ context.Context, userID string) ([]model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			result = append(result, *h)
		}
	}
	return result, nil
}

func (m *mockStore) UpdateHabit(_ context.Context, habit *model.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[habit.ID]; !ok {
		return apperror.NotFound("habit", habit.ID)
	}
	stored := *habit
	m.habits[habit.ID] = &stored
	return nil
}

func (m *mockStore) DeleteHabit(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.habits[id]; !ok {
		return apperror.NotFound("habit", id)
	}
	delete(m.habits, id)
	return nil
}

// === RecordRepository ===

func (m *mockStore) CreateRecord(_ context.Context, record *model.HabitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Enforce the same one-record-per-(habit, date) rule as the unique index.
	for _, r := range m.records {
		if r.HabitID == record.HabitID && r.Date.Equal(record.Date) {
			return apperror.Conflict("record", "a record already exists for this habit and date")
		}
	}
	record.ID = m.genID("record")
	stored := *record
	m.records[record.ID] = &stored
	return nil
}

func (m *mockStore) GetRecordByID(_ context.Context, id string) (*model.HabitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, apperror.NotFound("record", id)
	}
	result := *r
	return &result, nil
}

func (m *mockStore) GetRecordByKey(_ context.Context, habitID, userID string, date time.Time) (*model.HabitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.HabitID == habitID && r.UserID == userID && r.Date.Equal(date) {
			result := *r
			return &result, nil
		}
	}
	return nil, apperror.NotFound("record", habitID+"/"+date.Format("2006-01-02"))
}

func (m *mockStore) UpdateRecord(_ context.Context, record *model.HabitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[record.ID]; !ok {
		return apperror.NotFound("record", record.ID)
	}
	stored := *record
	m.records[record.ID] = &stored
	return nil
}

func (m *mockStore) DeleteRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return apperror.NotFound("record", id)
	}
	delete(m.records, id)
	return nil
}

func (m *mockStore) ListRecordsByHabit(_ context.Context, habitID string) ([]model.HabitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.HabitRecord
	for _, r := range m.records {
		if r.HabitID == habitID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockStore) ListRecordsByUser(_ context.Context, userID string, filter repository.RecordFilter) ([]model.HabitRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.HabitRecord
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		if filter.From != nil && r.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && r.Date.After(*filter.To) {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockStore) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// === SHARED HELPERS ===

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedUser(t *testing.T, store *mockStore) *model.User {
	t.Helper()
	user := &model.User{Username: "tester", Email: "tester@example.com", PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func seedUserNamed(t *testing.T, store *mockStore, username, email string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: email, PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return user
}

func seedHabit(t *testing.T, store *mockStore, userID string, reward int) *model.Habit {
	t.Helper()
	habit := &model.Habit{
		UserID:    userID,
		Name:      "Morning run",
		Frequency: model.FrequencyDaily,
		Color:     DefaultColor,
		XPReward:  reward,
	}
	if err := store.CreateHabit(context.Background(), habit); err != nil {
		t.Fatalf("seeding habit: %v", err)
	}
	return habit
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
