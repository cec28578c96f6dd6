package usecase

import (
	"context"
	"errors"

	"social-monkeys/pkg/apperror"
	"social-monkeys/pkg/logger"
	"social-monkeys/services/post/internal/entity"
	"social-monkeys/services/post/internal/repo/persistent"
)

// CounterUseCase detects and repairs drift between like_count/comment_count
// and the documents they summarize.
type CounterUseCase interface {
	CheckCounters(ctx context.Context, postID string) (*entity.CounterReport, error)
	RecomputeCounters(ctx context.Context, postID string) (*entity.CounterReport, error)
	// RecomputeAll repairs every live post. Posts deleted while it runs are
	// skipped; any other failure stops it.
	RecomputeAll(ctx context.Context) ([]*entity.CounterReport, error)
}

type counterUseCase struct {
	store  persistent.Store
	logger *logger.Logger
}

func NewCounterUseCase(store persistent.Store, logger *logger.Logger) CounterUseCase {
	return &counterUseCase{
		store:  store,
		logger: logger,
	}
}

func (uc *counterUseCase) CheckCounters(ctx context.Context, postID string) (*entity.CounterReport, error) {
	post, err := uc.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return countFor(ctx, uc.store, post)
}

func (uc *counterUseCase) RecomputeCounters(ctx context.Context, postID string) (*entity.CounterReport, error) {
	var report *entity.CounterReport
	err := uc.store.Atomically(ctx, func(tx persistent.Store) error {
		// Holding the row keeps concurrent +1/-1 updates out from between
		// the count and the write.
		post, err := tx.Posts().GetByIDForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		r, err := countFor(ctx, tx, post)
		if err != nil {
			return err
		}
		if r.Drifted {
			if err := tx.Posts().SetCounters(ctx, r.PostID, r.ActualLikes, r.ActualComments); err != nil {
				return err
			}
			r.Repaired = true
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if report.Repaired {
		uc.logger.Warn("Repaired counters on post %s: likes %d -> %d, comments %d -> %d",
			report.PostID, report.StoredLikes, report.ActualLikes, report.StoredComments, report.ActualComments)
	}
	return report, nil
}

func (uc *counterUseCase) RecomputeAll(ctx context.Context) ([]*entity.CounterReport, error) {
	ids, err := uc.store.Posts().ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*entity.CounterReport, 0, len(ids))
	for _, id := range ids {
		report, err := uc.RecomputeCounters(ctx, id)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func countFor(ctx context.Context, s persistent.Store, post *entity.Post) (*entity.CounterReport, error) {
	likes, err := s.Posts().CountLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments().CountByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return entity.NewCounterReport(post, likes, comments), nil
}
