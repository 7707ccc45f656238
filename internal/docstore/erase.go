package docstore

import (
	"errors"
	"strings"

	"github.com/julianstephens/caltrack/internal/logger"
)

// ClearAllData removes the records and profile of every indexed user, then
// the index and the session pointer. Each removal is attempted even if an
// earlier one failed; all failures are joined into the returned error.
//
// Custom food lists survive unless the store was built with
// WithEraseCustomFoods(true), in which case every list in the namespace is
// removed, including ones left behind by earlier erases.
func (s *Store) ClearAllData() error {
	var errs []error

	index := s.Index()
	if index.Status == StatusFailed {
		errs = append(errs, index.Err)
	}

	for _, entry := range index.Value {
		keys := []string{s.keys.RecordsKey(entry.ID), s.keys.UserKey(entry.ID)}
		if s.eraseCustomFoods {
			keys = append(keys, s.keys.UserFoodsKey(entry.ID))
		}
		for _, key := range keys {
			if err := s.removeKey(key); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if s.eraseCustomFoods {
		if err := s.removeOrphanedFoods(); err != nil {
			errs = append(errs, err)
		}
	}

	for _, key := range []string{s.keys.UsersIndexKey(), s.keys.CurrentUserKey()} {
		if err := s.removeKey(key); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		logger.Warn("erase finished with errors", "failures", len(errs))
	}
	return errors.Join(errs...)
}

func (s *Store) removeOrphanedFoods() error {
	keys, err := s.OrphanedFoodKeys()
	if err != nil {
		return err
	}

	var errs []error
	for _, key := range keys {
		if err := s.removeKey(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OrphanedFoodKeys lists custom food keys whose user is not in the index
func (s *Store) OrphanedFoodKeys() ([]string, error) {
	keys, err := s.provider.Keys(s.keys.UserFoodsPrefix())
	if err != nil {
		logger.Error("failed to list custom food keys", "error", err)
		return nil, err
	}

	indexed := make(map[string]bool)
	for _, entry := range s.ListAllUsers() {
		indexed[entry.ID] = true
	}

	var orphans []string
	for _, key := range keys {
		userID := strings.TrimPrefix(key, s.keys.UserFoodsPrefix())
		if !indexed[userID] {
			orphans = append(orphans, key)
		}
	}
	return orphans, nil
}
