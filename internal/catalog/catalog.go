package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/docstore"
	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/models"
)

//go:embed foods.yaml
var foodsYAML []byte

type catalogFile struct {
	Foods []models.FoodItem `yaml:"foods"`
}

var (
	loadOnce sync.Once
	builtIn  []models.FoodItem
	loadErr  error
)

var categoryLabels = map[constants.Category]string{
	constants.CategoryAll:        "All",
	constants.CategoryFruits:     "Fruits",
	constants.CategoryProteins:   "Proteins",
	constants.CategoryDairy:      "Dairy",
	constants.CategoryGrains:     "Grains & cereals",
	constants.CategoryVegetables: "Vegetables",
	constants.CategoryBeverages:  "Beverages",
	constants.CategorySnacks:     "Snacks",
}

// Parse decodes a catalog document, rejecting unknown fields, invalid items
// and repeated ids.
func Parse(data []byte) ([]models.FoodItem, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var file catalogFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse food catalog: %w", err)
	}

	seen := make(map[string]bool, len(file.Foods))
	for i := range file.Foods {
		f := &file.Foods[i]
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("catalog item %d: %w", i, err)
		}
		if f.IsCustom() {
			return nil, fmt.Errorf("catalog item %s uses the custom id prefix", f.ID)
		}
		if seen[f.ID] {
			return nil, fmt.Errorf("catalog item %s is listed twice", f.ID)
		}
		seen[f.ID] = true
	}

	return file.Foods, nil
}

func load() ([]models.FoodItem, error) {
	loadOnce.Do(func() {
		builtIn, loadErr = Parse(foodsYAML)
	})
	return builtIn, loadErr
}

// ListAllBuiltInFoods returns a copy of the embedded catalog
func ListAllBuiltInFoods() []models.FoodItem {
	foods, err := load()
	if err != nil {
		logger.Error("built-in catalog is unusable", "error", err)
		return []models.FoodItem{}
	}
	out := make([]models.FoodItem, len(foods))
	copy(out, foods)
	return out
}

// CategoryLabel returns the display name of c, or c itself if unknown
func CategoryLabel(c constants.Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// FoodsForUser returns the built-in catalog followed by userID's custom foods.
// An empty userID yields only the built-ins.
func FoodsForUser(store *docstore.Store, userID string) []models.FoodItem {
	foods := ListAllBuiltInFoods()
	if userID == "" || store == nil {
		return foods
	}
	return append(foods, store.ListUserFoods(userID)...)
}

// Find returns the item with id from list
func Find(list []models.FoodItem, id string) (models.FoodItem, bool) {
	for _, f := range list {
		if f.ID == id {
			return f, true
		}
	}
	return models.FoodItem{}, false
}

// Filter keeps items of category (or every category for "all" or empty)
// whose name contains search ignoring case.
func Filter(list []models.FoodItem, category constants.Category, search string) []models.FoodItem {
	search = strings.ToLower(strings.TrimSpace(search))
	out := []models.FoodItem{}
	for _, f := range list {
		if category != "" && category != constants.CategoryAll && f.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		out = append(out, f)
	}
	return out
}
