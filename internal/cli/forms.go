package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/caltrack/internal/catalog"
	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/models"
)

// ProfileFormModel holds the raw text of the profile form
type ProfileFormModel struct {
	Name          string
	Age           string
	Sex           string
	WeightKg      string
	HeightCm      string
	ActivityLevel string
	Goal          string
}

// FoodFormModel holds the raw text of the custom food form
type FoodFormModel struct {
	Name     string
	Calories string
	Category constants.Category
}

var activityLevels = []string{"sedentary", "light", "moderate", "active", "very_active"}

func IsActivityLevel(s string) bool {
	for _, level := range activityLevels {
		if s == level {
			return true
		}
	}
	return false
}

func optionalNumber(label string, bitSize int) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), bitSize)
		if err != nil {
			return fmt.Errorf("%s must be a number", label)
		}
		if v < 0 {
			return fmt.Errorf("%s cannot be negative", label)
		}
		return nil
	}
}

func requiredText(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}
		return nil
	}
}

func NewProfileForm(fm *ProfileFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(requiredText("name")),
			huh.NewInput().
				Title("Age").
				Value(&fm.Age).
				Validate(optionalNumber("age", 64)),
			huh.NewSelect[string]().
				Title("Sex").
				Options(
					huh.NewOption("Not set", ""),
					huh.NewOption("Female", "female"),
					huh.NewOption("Male", "male"),
				).
				Value(&fm.Sex),
			huh.NewInput().
				Title("Weight (kg)").
				Value(&fm.WeightKg).
				Validate(optionalNumber("weight", 64)),
			huh.NewInput().
				Title("Height (cm)").
				Value(&fm.HeightCm).
				Validate(optionalNumber("height", 64)),
			huh.NewSelect[string]().
				Title("Activity level").
				Options(huh.NewOptions(append([]string{""}, activityLevels...)...)...).
				Value(&fm.ActivityLevel),
			huh.NewInput().
				Title("Daily calorie goal").
				Value(&fm.Goal).
				Validate(optionalNumber("goal", 64)),
		),
	).WithTheme(huh.ThemeDracula())
}

// ProfileFormFromUser pre-fills the form with u
func ProfileFormFromUser(u models.User) *ProfileFormModel {
	fm := &ProfileFormModel{
		Name:          u.Name,
		Sex:           u.Sex,
		ActivityLevel: u.ActivityLevel,
	}
	if u.Age > 0 {
		fm.Age = strconv.Itoa(u.Age)
	}
	if u.WeightKg > 0 {
		fm.WeightKg = strconv.FormatFloat(u.WeightKg, 'f', -1, 64)
	}
	if u.HeightCm > 0 {
		fm.HeightCm = strconv.FormatFloat(u.HeightCm, 'f', -1, 64)
	}
	if u.DailyCalorieGoal > 0 {
		fm.Goal = strconv.Itoa(u.DailyCalorieGoal)
	}
	return fm
}

// ApplyTo copies the form values onto u
func (fm *ProfileFormModel) ApplyTo(u *models.User) error {
	u.Name = strings.TrimSpace(fm.Name)
	u.Sex = fm.Sex
	u.ActivityLevel = fm.ActivityLevel

	var err error
	if u.Age, err = parseOptionalInt(fm.Age, "age"); err != nil {
		return err
	}
	if u.DailyCalorieGoal, err = parseOptionalInt(fm.Goal, "daily calorie goal"); err != nil {
		return err
	}
	if u.WeightKg, err = parseOptionalFloat(fm.WeightKg, "weight"); err != nil {
		return err
	}
	if u.HeightCm, err = parseOptionalFloat(fm.HeightCm, "height"); err != nil {
		return err
	}
	return u.Validate()
}

func NewFoodForm(fm *FoodFormModel) *huh.Form {
	var options []huh.Option[constants.Category]
	for _, c := range constants.Categories {
		options = append(options, huh.NewOption(catalog.CategoryLabel(c), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Food name").
				Value(&fm.Name).
				Validate(requiredText("food name")),
			huh.NewInput().
				Title("Calories per 100g").
				Value(&fm.Calories).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("calories must be a whole number")
					}
					if i < 0 {
						return fmt.Errorf("calories cannot be negative")
					}
					return nil
				}),
			huh.NewSelect[constants.Category]().
				Title("Category").
				Options(options...).
				Value(&fm.Category),
		),
	).WithTheme(huh.ThemeDracula())
}

// ToFood builds a custom food with id from the form values
func (fm *FoodFormModel) ToFood(id string) (models.FoodItem, error) {
	calories, err := strconv.Atoi(strings.TrimSpace(fm.Calories))
	if err != nil {
		return models.FoodItem{}, fmt.Errorf("invalid calories %q: %w", fm.Calories, err)
	}
	food := models.FoodItem{
		ID:              id,
		Name:            strings.TrimSpace(fm.Name),
		CaloriesPer100g: calories,
		Category:        fm.Category,
	}
	return food, food.Validate()
}

// Confirm asks a yes/no question with a huh confirm field
func Confirm(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return confirmed, err
}

func parseOptionalInt(s, label string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", label, s)
	}
	return v, nil
}

func parseOptionalFloat(s, label string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", label, s)
	}
	return v, nil
}
