package docstore

import (
	"fmt"

	"github.com/julianstephens/caltrack/internal/validation"
)

// Audit checks every document reachable from the index and reports
// inconsistencies. It never modifies the store.
func (s *Store) Audit() validation.ValidationResult {
	var result validation.ValidationResult

	index := s.Index()
	if index.Status == StatusFailed {
		result.Add(corrupt(s.keys.UsersIndexKey(), "", index.Err))
		return result
	}
	result.Merge(validation.ValidateIndex(index.Value))

	for _, entry := range index.Value {
		switch u := s.User(entry.ID); u.Status {
		case StatusFailed:
			result.Add(corrupt(s.keys.UserKey(entry.ID), entry.ID, u.Err))
		case StatusEmpty:
			result.Add(validation.Conflict{
				Type:        validation.ConflictMissingUserDoc,
				Description: fmt.Sprintf("user %s (%s) is indexed but has no profile document", entry.ID, entry.Name),
				UserID:      entry.ID,
				Key:         s.keys.UserKey(entry.ID),
			})
		}

		if records := s.Records(entry.ID); records.Status == StatusFailed {
			result.Add(corrupt(s.keys.RecordsKey(entry.ID), entry.ID, records.Err))
		} else {
			result.Merge(validation.ValidateRecords(entry.ID, records.Value))
		}

		if foods := s.Foods(entry.ID); foods.Status == StatusFailed {
			result.Add(corrupt(s.keys.UserFoodsKey(entry.ID), entry.ID, foods.Err))
		} else {
			result.Merge(validation.ValidateFoods(entry.ID, foods.Value))
		}
	}

	return result
}

func corrupt(key, userID string, err error) validation.Conflict {
	return validation.Conflict{
		Type:        validation.ConflictCorruptDocument,
		Description: fmt.Sprintf("document %s could not be read: %v", key, err),
		UserID:      userID,
		Key:         key,
	}
}
