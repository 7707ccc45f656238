package docstore

import "github.com/julianstephens/caltrack/internal/constants"

// Keys derives storage keys inside one namespace. All methods are pure.
type Keys struct {
	Namespace string
}

func (k Keys) CurrentUserKey() string {
	return k.Namespace + constants.CurrentUserKey
}

func (k Keys) UsersIndexKey() string {
	return k.Namespace + constants.UsersIndexKey
}

func (k Keys) UserKey(userID string) string {
	return k.Namespace + constants.UserKeyPrefix + userID
}

func (k Keys) RecordsKey(userID string) string {
	return k.Namespace + constants.RecordsKeyPrefix + userID
}

func (k Keys) UserFoodsKey(userID string) string {
	return k.Namespace + constants.UserFoodsPrefix + userID
}

// UserFoodsPrefix is the common prefix of every custom food list key
func (k Keys) UserFoodsPrefix() string {
	return k.Namespace + constants.UserFoodsPrefix
}
