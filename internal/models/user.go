package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User is the full profile document persisted per user.
type User struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Age              int     `json:"age,omitempty"`
	Sex              string  `json:"sex,omitempty"`
	WeightKg         float64 `json:"weightKg,omitempty"`
	HeightCm         float64 `json:"heightCm,omitempty"`
	ActivityLevel    string  `json:"activityLevel,omitempty"`
	DailyCalorieGoal int     `json:"dailyCalorieGoal,omitempty"`

	// Extra holds profile fields this version does not know about so that
	// a load and save round trip keeps them.
	Extra map[string]json.RawMessage `json:"-"`
}

type userFields User

var knownUserFields = map[string]bool{
	"id": true, "name": true, "age": true, "sex": true, "weightKg": true,
	"heightCm": true, "activityLevel": true, "dailyCalorieGoal": true,
}

func (u User) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(userFields(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(u.Extra)+len(knownUserFields))
	for k, v := range u.Extra {
		if !knownUserFields[k] {
			merged[k] = v
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var fields userFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownUserFields {
		delete(raw, k)
	}
	*u = User(fields)
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}

// UserIndexEntry is one row of the global user directory index.
type UserIndexEntry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	LastAccess time.Time `json:"lastAccess"`
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	if u.Age < 0 {
		return fmt.Errorf("age cannot be negative: %d", u.Age)
	}
	if u.WeightKg < 0 || u.HeightCm < 0 {
		return fmt.Errorf("weight and height cannot be negative")
	}
	if u.DailyCalorieGoal < 0 {
		return fmt.Errorf("daily calorie goal cannot be negative: %d", u.DailyCalorieGoal)
	}
	return nil
}

// MatchesName reports whether name equals the user's name ignoring case.
func (e UserIndexEntry) MatchesName(name string) bool {
	return strings.EqualFold(e.Name, name)
}

// BMI expects height in centimeters and weight in kilograms.
func (u *User) BMI() (float64, error) {
	if u.HeightCm <= 0 || u.WeightKg <= 0 {
		return 0, errors.New("height and weight must be positive")
	}
	if u.HeightCm < 50 || u.HeightCm > 250 || u.WeightKg < 10 || u.WeightKg > 400 {
		return 0, errors.New("height/weight out of plausible range")
	}

	h := u.HeightCm / 100.0
	return u.WeightKg / (h * h), nil
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	case bmi < 35.0:
		return "Obesity class I"
	case bmi < 40.0:
		return "Obesity class II"
	default:
		return "Obesity class III"
	}
}
