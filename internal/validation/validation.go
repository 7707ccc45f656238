package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/caltrack/internal/constants"
	"github.com/julianstephens/caltrack/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateUserID   ConflictType = "duplicate_user_id"
	ConflictDuplicateUserName ConflictType = "duplicate_user_name"
	ConflictMissingUserDoc    ConflictType = "missing_user_document"
	ConflictDuplicateDate     ConflictType = "duplicate_record_date"
	ConflictInvalidDate       ConflictType = "invalid_record_date"
	ConflictTotalMismatch     ConflictType = "total_mismatch"
	ConflictDuplicateFoodID   ConflictType = "duplicate_food_id"
	ConflictInvalidFood       ConflictType = "invalid_food"
	ConflictCorruptDocument   ConflictType = "corrupt_document"
)

// Conflict represents one inconsistency found in stored documents
type Conflict struct {
	Type        ConflictType
	Description string
	UserID      string
	Key         string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Add appends c to the result
func (vr *ValidationResult) Add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Merge appends every conflict of other
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// ValidateIndex checks the user directory for repeated ids. Repeated names
// are reported too: name lookups resolve to the first entry only.
func ValidateIndex(entries []models.UserIndexEntry) ValidationResult {
	var result ValidationResult
	seenIDs := make(map[string]bool)
	seenNames := make(map[string]string)

	for _, e := range entries {
		if seenIDs[e.ID] {
			result.Add(Conflict{
				Type:        ConflictDuplicateUserID,
				Description: fmt.Sprintf("user id %s appears more than once in the index", e.ID),
				UserID:      e.ID,
			})
		}
		seenIDs[e.ID] = true

		lower := strings.ToLower(e.Name)
		if firstID, ok := seenNames[lower]; ok && firstID != e.ID {
			result.Add(Conflict{
				Type:        ConflictDuplicateUserName,
				Description: fmt.Sprintf("user name %q is shared by %s and %s; lookups return %s", e.Name, firstID, e.ID, firstID),
				UserID:      e.ID,
			})
		} else if !ok {
			seenNames[lower] = e.ID
		}
	}

	return result
}

// ValidateRecords checks one user's daily records
func ValidateRecords(userID string, records []models.DailyRecord) ValidationResult {
	var result ValidationResult
	seen := make(map[string]bool)

	for _, r := range records {
		if seen[r.Date] {
			result.Add(Conflict{
				Type:        ConflictDuplicateDate,
				Description: fmt.Sprintf("user %s has more than one record for %s", userID, r.Date),
				UserID:      userID,
			})
		}
		seen[r.Date] = true

		if err := r.Validate(); err != nil {
			result.Add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("user %s record %q: %v", userID, r.Date, err),
				UserID:      userID,
			})
		}

		sum := 0
		for _, e := range r.Entries {
			sum += e.Calories
		}
		if len(r.Entries) > 0 && sum != r.TotalCalories {
			result.Add(Conflict{
				Type:        ConflictTotalMismatch,
				Description: fmt.Sprintf("user %s record %s total %d does not match entries (%d)", userID, r.Date, r.TotalCalories, sum),
				UserID:      userID,
			})
		}
	}

	return result
}

// ValidateFoods checks one user's custom food list
func ValidateFoods(userID string, foods []models.FoodItem) ValidationResult {
	var result ValidationResult
	seen := make(map[string]bool)

	for _, f := range foods {
		if seen[f.ID] {
			result.Add(Conflict{
				Type:        ConflictDuplicateFoodID,
				Description: fmt.Sprintf("user %s has more than one custom food with id %s", userID, f.ID),
				UserID:      userID,
			})
		}
		seen[f.ID] = true

		if err := f.Validate(); err != nil {
			result.Add(Conflict{
				Type:        ConflictInvalidFood,
				Description: fmt.Sprintf("user %s food %s: %v", userID, f.ID, err),
				UserID:      userID,
			})
		} else if !f.IsCustom() {
			result.Add(Conflict{
				Type:        ConflictInvalidFood,
				Description: fmt.Sprintf("user %s food %s is missing the %q id prefix", userID, f.ID, constants.CustomFoodIDPrefix),
				UserID:      userID,
			})
		}
	}

	return result
}
