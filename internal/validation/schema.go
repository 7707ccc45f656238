package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// DocumentKind names one of the stored document shapes
type DocumentKind string

const (
	KindUser      DocumentKind = "user"
	KindUserIndex DocumentKind = "user_index"
	KindRecords   DocumentKind = "records"
	KindFoods     DocumentKind = "foods"
)

// ErrShape wraps every schema mismatch
var ErrShape = errors.New("document does not match expected shape")

const userSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0},
		"weightKg": {"type": "number", "minimum": 0},
		"heightCm": {"type": "number", "minimum": 0},
		"dailyCalorieGoal": {"type": "integer", "minimum": 0}
	}
}`

const userIndexSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"createdAt": {"type": "string"},
			"lastAccess": {"type": "string"}
		}
	}
}`

const recordsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["date"],
		"properties": {
			"date": {"type": "string"},
			"totalCalories": {"type": "number"},
			"goal": {"type": "number"},
			"entries": {
				"type": ["array", "null"],
				"items": {
					"type": "object",
					"properties": {
						"foodId": {"type": "string"},
						"quantityG": {"type": "number", "minimum": 0},
						"calories": {"type": "number"}
					}
				}
			}
		}
	}
}`

const foodsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "name", "caloriesPer100g", "category"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"name": {"type": "string"},
			"caloriesPer100g": {"type": "integer", "minimum": 0},
			"category": {"enum": ["fruits", "proteins", "dairy", "grains", "vegetables", "beverages", "snacks"]}
		}
	}
}`

var (
	compileOnce sync.Once
	compiled    map[DocumentKind]*jsonschema.Schema
	compileErr  error
)

func schemas() (map[DocumentKind]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		sources := map[DocumentKind]string{
			KindUser:      userSchema,
			KindUserIndex: userIndexSchema,
			KindRecords:   recordsSchema,
			KindFoods:     foodsSchema,
		}

		compiled = make(map[DocumentKind]*jsonschema.Schema, len(sources))
		for kind, src := range sources {
			schema, err := jsonschema.NewCompiler().Compile([]byte(src))
			if err != nil {
				compileErr = fmt.Errorf("failed to compile %s schema: %w", kind, err)
				return
			}
			compiled[kind] = schema
		}
	})
	return compiled, compileErr
}

// ValidateDocument checks raw JSON against the schema for kind. Errors wrap
// ErrShape when the JSON parses but has the wrong shape.
func ValidateDocument(kind DocumentKind, raw []byte) error {
	all, err := schemas()
	if err != nil {
		return err
	}
	schema, ok := all[kind]
	if !ok {
		return fmt.Errorf("unknown document kind: %s", kind)
	}

	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	result := schema.Validate(instance)
	if !result.IsValid() {
		var messages []string
		for field, evalErr := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		sort.Strings(messages)
		return fmt.Errorf("%w (%s): %s", ErrShape, kind, strings.Join(messages, "; "))
	}

	return nil
}
