// Package credstore persists the client session between runs: the auth token
// and a cached copy of the user profile, keyed by fixed names in a local
// SQLite file. It is the desktop analogue of the web client's localStorage.
package credstore

import (
	"encoding/json"
	"time"

	"cinememory/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Fixed record keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Credential is one persisted key/value record.
type Credential struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

// Store reads and writes persisted session records.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the credential database at path. ":memory:"
// gives an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Credential{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) get(key string) string {
	var cred Credential
	if err := s.db.First(&cred, "key = ?", key).Error; err != nil {
		return ""
	}
	return cred.Value
}

func (s *Store) set(key, value string) error {
	cred := Credential{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Save(&cred).Error
}

func (s *Store) clear(key string) error {
	return s.db.Delete(&Credential{}, "key = ?", key).Error
}

// Token returns the persisted auth token, or "" when signed out.
// Satisfies api.TokenSource.
func (s *Store) Token() string {
	return s.get(KeyToken)
}

// SetToken persists the auth token; an empty token clears the record.
func (s *Store) SetToken(token string) error {
	if token == "" {
		return s.clear(KeyToken)
	}
	return s.set(KeyToken, token)
}

// User returns the cached profile, if one was persisted.
func (s *Store) User() (models.UserProfile, bool) {
	raw := s.get(KeyUser)
	if raw == "" {
		return models.UserProfile{}, false
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return models.UserProfile{}, false
	}
	return profile, true
}

// SetUser caches the profile alongside the token.
func (s *Store) SetUser(profile models.UserProfile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.set(KeyUser, string(encoded))
}

// Clear removes every persisted record.
func (s *Store) Clear() error {
	if err := s.clear(KeyToken); err != nil {
		return err
	}
	return s.clear(KeyUser)
}
