package docstore

import (
	"fmt"

	"github.com/julianstephens/caltrack/internal/logger"
	"github.com/julianstephens/caltrack/internal/models"
	"github.com/julianstephens/caltrack/internal/validation"
)

// SaveUser makes u the active user, writes its profile and upserts its index
// entry. An existing entry keeps its CreatedAt; LastAccess is always refreshed.
func (s *Store) SaveUser(u models.User) error {
	if err := u.Validate(); err != nil {
		logger.Error("refusing to save invalid user", "id", u.ID, "error", err)
		return fmt.Errorf("invalid user: %w", err)
	}

	if err := s.writeDoc(s.keys.CurrentUserKey(), u); err != nil {
		return err
	}
	if err := s.writeDoc(s.keys.UserKey(u.ID), u); err != nil {
		return err
	}

	index, err := readList[models.UserIndexEntry](s, s.keys.UsersIndexKey(), validation.KindUserIndex)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	found := false
	for i := range index {
		if index[i].ID == u.ID {
			index[i].Name = u.Name
			index[i].LastAccess = now
			found = true
			break
		}
	}
	if !found {
		index = append(index, models.UserIndexEntry{
			ID:         u.ID,
			Name:       u.Name,
			CreatedAt:  now,
			LastAccess: now,
		})
	}

	return s.writeDoc(s.keys.UsersIndexKey(), index)
}

// ActiveUser returns the user of the current session
func (s *Store) ActiveUser() Result[models.User] {
	return readDoc[models.User](s, s.keys.CurrentUserKey(), validation.KindUser)
}

func (s *Store) GetActiveUser() (models.User, bool) {
	return s.ActiveUser().Get()
}

// ClearActiveUser ends the session. Per-user documents are kept.
func (s *Store) ClearActiveUser() error {
	return s.removeKey(s.keys.CurrentUserKey())
}

// User loads the profile document of userID
func (s *Store) User(userID string) Result[models.User] {
	return readDoc[models.User](s, s.keys.UserKey(userID), validation.KindUser)
}

func (s *Store) GetUser(userID string) (models.User, bool) {
	return s.User(userID).Get()
}

// Index returns the user directory in insertion order
func (s *Store) Index() Result[[]models.UserIndexEntry] {
	return readDoc[[]models.UserIndexEntry](s, s.keys.UsersIndexKey(), validation.KindUserIndex)
}

func (s *Store) ListAllUsers() []models.UserIndexEntry {
	index, _ := s.Index().Get()
	if index == nil {
		return []models.UserIndexEntry{}
	}
	return index
}

// UserByName resolves name against the index ignoring case. With several
// matching entries the first one in index order wins.
func (s *Store) UserByName(name string) Result[models.User] {
	index := s.Index()
	if index.Status == StatusFailed {
		return failed[models.User](index.Err)
	}

	for _, entry := range index.Value {
		if entry.MatchesName(name) {
			return s.User(entry.ID)
		}
	}
	return empty[models.User]()
}

func (s *Store) LookupByName(name string) (models.User, bool) {
	return s.UserByName(name).Get()
}

// NameExists reports whether any index entry matches name ignoring case
func (s *Store) NameExists(name string) bool {
	for _, entry := range s.ListAllUsers() {
		if entry.MatchesName(name) {
			return true
		}
	}
	return false
}
