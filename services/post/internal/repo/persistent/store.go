package persistent

import (
	"context"

	"social-monkeys/pkg/database"

	"gorm.io/gorm"
)

// Store groups the repositories whose writes must land together.
type Store interface {
	Posts() PostRepository
	Comments() CommentRepository
	// Atomically runs fn inside one transaction. The Store passed to fn is
	// bound to that transaction.
	Atomically(ctx context.Context, fn func(Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Posts() PostRepository {
	return &postRepository{db: s.db}
}

func (s *store) Comments() CommentRepository {
	return &commentRepository{db: s.db}
}

func (s *store) Atomically(ctx context.Context, fn func(Store) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
	return database.TranslateError(err, "transaction")
}
