package recipients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Store maps platform user ids to at most one active chat endpoint.
type Store interface {
	// GetEndpoint returns the active chat id for a user. ok is false when
	// the user has no active endpoint; that is not an error.
	GetEndpoint(ctx context.Context, userID string) (chatID int64, ok bool, err error)
}

type recipientStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &recipientStore{db: db}, nil
}

func (s *recipientStore) GetEndpoint(ctx context.Context, userID string) (int64, bool, error) {
	query := "SELECT chat_id FROM recipients WHERE user_id = ? AND active"

	var chatID int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query endpoint for %s: %w", userID, err)
	}
	return chatID, true, nil
}
