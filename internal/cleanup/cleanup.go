package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/academy/internal/repository"
)

// Service removes OTP codes that can no longer be verified.
type Service struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewService(repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, now: time.Now, log: log}
}

// PurgeExpired deletes every expired code and returns how many were removed.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.OTP.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("failed to purge expired otp codes", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.log.Info("purged expired otp codes", zap.Int64("count", n))
	}
	return n, nil
}
