package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/caltrack/internal/constants"
)

// FoodItem is a catalog entry, either built in or user-authored.
type FoodItem struct {
	ID              string             `json:"id" yaml:"id"`
	Name            string             `json:"name" yaml:"name"`
	CaloriesPer100g int                `json:"caloriesPer100g" yaml:"calories_per_100g"`
	Category        constants.Category `json:"category" yaml:"category"`
}

func (f *FoodItem) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("food id cannot be empty")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("food name cannot be empty")
	}
	if f.CaloriesPer100g < 0 {
		return fmt.Errorf("calories per 100g cannot be negative: %d", f.CaloriesPer100g)
	}
	if !IsValidCategory(f.Category) {
		return fmt.Errorf("unknown food category: %q", f.Category)
	}
	return nil
}

// IsCustom returns true if the item was authored by a user
func (f *FoodItem) IsCustom() bool {
	return strings.HasPrefix(f.ID, constants.CustomFoodIDPrefix)
}

// CaloriesFor returns the calories in quantityG grams, rounded to the nearest kcal.
func (f *FoodItem) CaloriesFor(quantityG float64) int {
	if quantityG <= 0 {
		return 0
	}
	return int(math.Round(float64(f.CaloriesPer100g) * quantityG / 100))
}

func IsValidCategory(c constants.Category) bool {
	for _, known := range constants.Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (constants.Category, error) {
	c := constants.Category(strings.ToLower(strings.TrimSpace(s)))
	if c == constants.CategoryAll || IsValidCategory(c) {
		return c, nil
	}
	return "", fmt.Errorf("invalid category: %s", s)
}
