package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/habit-tracker/internal/apperror"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/preset"
	"github.com/sakif/habit-tracker/internal/repository"
)

const (
	MaxHabitNameLength   = 100
	MaxDescriptionLength = 500
	DefaultColor         = "#3b82f6"
)

// HabitService handles business logic for habit definitions.
//
// Every operation takes the acting user's ID explicitly — there is no
// ambient "current user" state anywhere below the HTTP middleware. A habit
// that exists but belongs to someone else is reported as not found, so
// responses never reveal other users' data.
type HabitService struct {
	habits repository.HabitRepository
	logger *slog.Logger
}

// NewHabitService creates a HabitService.
func NewHabitService(habits repository.HabitRepository, logger *slog.Logger) *HabitService {
	return &HabitService{habits: habits, logger: logger}
}

// CreateHabitInput carries the creatable fields. Zero values fall back to
// defaults (frequency daily, color #3b82f6, reward 0).
type CreateHabitInput struct {
	Name        string
	Description string
	Frequency   string
	Color       string
	XPReward    int
	Difficulty  string
}

// UpdateHabitInput uses pointer fields so "field omitted" (nil) is
// distinguishable from an explicit value — omitted fields keep their prior
// value, matching the record-submission patch semantics.
type UpdateHabitInput struct {
	Name        *string
	Description *string
	Frequency   *string
	Color       *string
	XPReward    *int
	Difficulty  *string
}

func validFrequency(f string) bool {
	switch f {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
		return true
	}
	return false
}

// Create validates and saves a new habit for the given user.
func (s *HabitService) Create(ctx context.Context, userID string, in CreateHabitInput) (*model.Habit, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "habit name is required")
	}
	if len(name) > MaxHabitNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("habit name must be %d characters or less", MaxHabitNameLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}

	frequency := in.Frequency
	if frequency == "" {
		frequency = model.FrequencyDaily
	}
	if !validFrequency(frequency) {
		return nil, apperror.ValidationFailed("frequency", "frequency must be daily, weekly, or monthly")
	}

	color := in.Color
	if color == "" {
		color = DefaultColor
	}

	if in.XPReward < 0 {
		return nil, apperror.ValidationFailed("xpReward", "xpReward must not be negative")
	}

	habit := &model.Habit{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Frequency:   frequency,
		Color:       color,
		XPReward:    in.XPReward,
		Difficulty:  in.Difficulty,
	}

	if err := s.habits.CreateHabit(ctx, habit); err != nil {
		s.logger.Error("failed to create habit",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating habit: %w", err)
	}

	s.logger.Info("habit created",
		slog.String("id", habit.ID),
		slog.String("userID", userID),
		slog.String("name", habit.Name),
	)

	return habit, nil
}

// Get retrieves one habit, scoped to its owner.
func (s *HabitService) Get(ctx context.Context, userID, id string) (*model.Habit, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "habit ID is required")
	}

	habit, err := s.habits.GetHabitByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// A foreign habit gets the same answer as a missing one.
	if habit.UserID != userID {
		return nil, apperror.NotFound("habit", id)
	}

	return habit, nil
}

// List returns all of the user's habits.
func (s *HabitService) List(ctx context.Context, userID string) ([]model.Habit, error) {
	habits, err := s.habits.ListHabitsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list habits", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	return habits, nil
}

// Update applies a partial update to an owned habit. Nil fields keep their
// prior value.
func (s *HabitService) Update(ctx context.Context, userID, id string, in UpdateHabitInput) (*model.Habit, error) {
	habit, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "habit name must not be empty")
		}
		if len(name) > MaxHabitNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("habit name must be %d characters or less", MaxHabitNameLength))
		}
		habit.Name = name
	}
	if in.Description != nil {
		if len(*in.Description) > MaxDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
		}
		habit.Description = strings.TrimSpace(*in.Description)
	}
	if in.Frequency != nil {
		if !validFrequency(*in.Frequency) {
			return nil, apperror.ValidationFailed("frequency", "frequency must be daily, weekly, or monthly")
		}
		habit.Frequency = *in.Frequency
	}
	if in.Color != nil && *in.Color != "" {
		habit.Color = *in.Color
	}
	if in.XPReward != nil {
		if *in.XPReward < 0 {
			return nil, apperror.ValidationFailed("xpReward", "xpReward must not be negative")
		}
		// Changing the reward only affects FUTURE completions — XP already
		// awarded for past completions is not revised.
		habit.XPReward = *in.XPReward
	}
	if in.Difficulty != nil {
		habit.Difficulty = *in.Difficulty
	}

	if err := s.habits.UpdateHabit(ctx, habit); err != nil {
		s.logger.Error("failed to update habit",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating habit: %w", err)
	}

	s.logger.Info("habit updated", slog.String("id", id))

	return habit, nil
}

// Delete removes an owned habit. Completion records for the habit are kept
// (they still show on history views); the user's XP is untouched — only
// record deletion reverses XP.
func (s *HabitService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.habits.DeleteHabit(ctx, id); err != nil {
		return err
	}

	s.logger.Info("habit deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// Presets returns the built-in habit catalog.
func (s *HabitService) Presets() []preset.Habit {
	return preset.Habits
}
