package db

import (
	"log"

	"github.com/google/uuid"
	"podblog/internal/models"
)

// CreateUser inserts a new user with a fresh id and public feed UUID.
func CreateUser(email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash, feed_uuid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password_hash, feed_uuid, created_at, updated_at
	`
	user := &models.User{}
	err := DB.Get(user, query, uuid.NewString(), email, passwordHash, uuid.NewString())
	if err != nil {
		log.Printf("Error creating user %s: %v", email, err)
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByID(id string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByFeedUUID resolves the public RSS feed identifier to its owner.
func GetUserByFeedUUID(feedUUID string) (*models.User, error) {
	user := &models.User{}
	err := DB.Get(user, "SELECT * FROM users WHERE feed_uuid = $1", feedUUID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
