package docstore

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/models"
	"github.com/julianstephens/caltrack/internal/validation"
)

// NewCustomFoodID returns a fresh id in the custom food namespace
func NewCustomFoodID() string {
	return constants.CustomFoodIDPrefix + uuid.New().String()
}

// Foods returns the custom foods of userID in stored order
func (s *Store) Foods(userID string) Result[[]models.FoodItem] {
	return readDoc[[]models.FoodItem](s, s.keys.UserFoodsKey(userID), validation.KindFoods)
}

func (s *Store) ListUserFoods(userID string) []models.FoodItem {
	foods, _ := s.Foods(userID).Get()
	if foods == nil {
		return []models.FoodItem{}
	}
	return foods
}

// UpsertUserFood replaces the item with the same id in place, or appends it.
// Invalid items are logged and skipped. The id prefix is not enforced here.
func (s *Store) UpsertUserFood(userID string, food models.FoodItem) error {
	if err := food.Validate(); err != nil {
		logger.Error("skipping invalid custom food", "user", userID, "id", food.ID, "error", err)
		return fmt.Errorf("invalid food: %w", err)
	}

	key := s.keys.UserFoodsKey(userID)
	foods, err := readList[models.FoodItem](s, key, validation.KindFoods)
	if err != nil {
		return err
	}

	replaced := false
	for i := range foods {
		if foods[i].ID == food.ID {
			foods[i] = food
			replaced = true
			break
		}
	}
	if !replaced {
		foods = append(foods, food)
	}

	return s.writeDoc(key, foods)
}

// RemoveUserFood drops the item with foodID. A missing id is a no-op.
func (s *Store) RemoveUserFood(userID, foodID string) error {
	key := s.keys.UserFoodsKey(userID)
	foods, err := readList[models.FoodItem](s, key, validation.KindFoods)
	if err != nil {
		return err
	}

	kept := make([]models.FoodItem, 0, len(foods))
	for _, f := range foods {
		if f.ID != foodID {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(foods) {
		return nil
	}

	return s.writeDoc(key, kept)
}
