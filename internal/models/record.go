package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/caltrack/internal/constants"
)

// DailyRecord holds everything logged for one calendar day.
type DailyRecord struct {
	Date          string      `json:"date"` // YYYY-MM-DD
	Entries       []FoodEntry `json:"entries"`
	TotalCalories int         `json:"totalCalories"`
	Goal          int         `json:"goal,omitempty"`
}

// FoodEntry is a single logged quantity of a food.
type FoodEntry struct {
	FoodID    string    `json:"foodId"`
	Name      string    `json:"name"`
	QuantityG float64   `json:"quantityG"`
	Calories  int       `json:"calories"`
	LoggedAt  time.Time `json:"loggedAt"`
}

func (r *DailyRecord) Validate() error {
	if r.Date == "" {
		return fmt.Errorf("record date cannot be empty")
	}
	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	for i, e := range r.Entries {
		if e.QuantityG < 0 {
			return fmt.Errorf("entry %d has negative quantity", i)
		}
	}
	return nil
}

// Recalculate sums entry calories into TotalCalories
func (r *DailyRecord) Recalculate() {
	total := 0
	for _, e := range r.Entries {
		total += e.Calories
	}
	r.TotalCalories = total
}

// AddEntry appends an entry for quantityG grams of food and refreshes the total.
func (r *DailyRecord) AddEntry(food FoodItem, quantityG float64, at time.Time) FoodEntry {
	entry := FoodEntry{
		FoodID:    food.ID,
		Name:      food.Name,
		QuantityG: quantityG,
		Calories:  food.CaloriesFor(quantityG),
		LoggedAt:  at.UTC(),
	}
	r.Entries = append(r.Entries, entry)
	r.Recalculate()
	return entry
}

// RemainingCalories returns Goal minus TotalCalories, or 0 without a goal.
func (r *DailyRecord) RemainingCalories() int {
	if r.Goal <= 0 {
		return 0
	}
	return r.Goal - r.TotalCalories
}

// ParsedDate returns the record date as a time, reporting whether it parsed.
func (r *DailyRecord) ParsedDate() (time.Time, bool) {
	t, err := time.Parse(constants.DateFormat, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
