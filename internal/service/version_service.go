package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type versionRepository interface {
	FindLatestDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error)
	FindLatestPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error)
	FindByID(ctx context.Context, id string) (*models.TimetableVersion, error)
	Create(ctx context.Context, version *models.TimetableVersion) error
	ArchivePublished(ctx context.Context, batchID string) error
	PromoteDraft(ctx context.Context, id string, publishedAt time.Time) error
}

type gridCacheInvalidator interface {
	Delete(ctx context.Context, key string) error
}

type publishMetrics interface {
	RecordPublish()
}

// publishedGridCacheKey derives the cache key for a batch's published grid.
func publishedGridCacheKey(batchID string) string {
	return fmt.Sprintf("timetable:grid:%s", batchID)
}

// VersionService manages the draft/published/archived lifecycle per batch.
type VersionService struct {
	repo    versionRepository
	cache   gridCacheInvalidator
	metrics publishMetrics
	logger  *zap.Logger
}

// NewVersionService instantiates VersionService. Cache and metrics may be nil.
func NewVersionService(repo versionRepository, cache gridCacheInvalidator, metrics publishMetrics, logger *zap.Logger) *VersionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VersionService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// GetOrCreateDraft returns the batch's current draft, creating one lazily the
// first time a batch is opened for editing. The check-then-create sequence is
// best-effort idempotent: a racing duplicate is tolerated because the read
// always prefers the most recently created draft.
func (s *VersionService) GetOrCreateDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	draft, err := s.repo.FindLatestDraft(ctx, batchID)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up draft version")
	}

	created := models.TimetableVersion{BatchID: batchID, Status: models.VersionStatusDraft, Name: "Draft"}
	if err := s.repo.Create(ctx, &created); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create draft version")
	}
	s.logger.Info("draft version created", zap.String("batch_id", batchID), zap.String("version_id", created.ID))

	// Re-read so a concurrent creator and this caller converge on one row.
	draft, err = s.repo.FindLatestDraft(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-read draft version")
	}
	return draft, nil
}

// GetPublished returns the batch's most recently published version, or nil
// when none exists.
func (s *VersionService) GetPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	published, err := s.repo.FindLatestPublished(ctx, batchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up published version")
	}
	return published, nil
}

// Workspace resolves the draft and published version ids driving the
// two-mode editor view.
func (s *VersionService) Workspace(ctx context.Context, batchID string) (*models.Workspace, error) {
	draft, err := s.GetOrCreateDraft(ctx, batchID)
	if err != nil {
		return nil, err
	}
	published, err := s.GetPublished(ctx, batchID)
	if err != nil {
		return nil, err
	}

	ws := &models.Workspace{BatchID: batchID, DraftVersionID: draft.ID}
	if published != nil {
		ws.PublishedVersionID = &published.ID
	}
	return ws, nil
}

// Publish runs the three-step transition: archive the current published
// version, promote the draft, then create a fresh empty draft. The steps are
// distinct writes with no surrounding transaction; a partial failure leaves
// the batch without a published version and is recovered by re-invoking
// Publish, every step being a no-op once its effect is in place.
func (s *VersionService) Publish(ctx context.Context, batchID, draftVersionID string) (*models.TimetableVersion, error) {
	version, err := s.repo.FindByID(ctx, draftVersionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable version not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable version")
	}
	if version.BatchID != batchID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "version does not belong to this batch")
	}

	switch version.Status {
	case models.VersionStatusDraft:
		// step 1: retire the currently published version, if any.
		if err := s.repo.ArchivePublished(ctx, batchID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive published version")
		}
		// step 2: promote the draft.
		if err := s.repo.PromoteDraft(ctx, draftVersionID, time.Now().UTC()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrVersionNotReady, "draft version is no longer publishable; retry publish")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to promote draft version")
		}
	case models.VersionStatusPublished:
		// Retry after a step-3 failure: the promotion already happened, so
		// re-running steps 1-2 would archive the version we just published.
		// Fall through to recreate the missing draft only.
	default:
		return nil, appErrors.Clone(appErrors.ErrVersionNotReady, "archived versions cannot be published")
	}

	// step 3: spawn a fresh empty draft for continued editing.
	if err := s.ensureDraftAfterPublish(ctx, batchID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, publishedGridCacheKey(batchID)); err != nil {
			s.logger.Warn("failed to invalidate published grid cache", zap.String("batch_id", batchID), zap.Error(err))
		}
	}

	published, err := s.repo.FindByID(ctx, draftVersionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to re-read published version")
	}
	if s.metrics != nil {
		s.metrics.RecordPublish()
	}
	s.logger.Info("timetable published",
		zap.String("batch_id", batchID),
		zap.String("version_id", draftVersionID),
	)
	return published, nil
}

func (s *VersionService) ensureDraftAfterPublish(ctx context.Context, batchID string) error {
	if _, err := s.repo.FindLatestDraft(ctx, batchID); err == nil {
		return nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up draft version")
	}

	draft := models.TimetableVersion{BatchID: batchID, Status: models.VersionStatusDraft, Name: "Draft"}
	if err := s.repo.Create(ctx, &draft); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fresh draft after publish")
	}
	return nil
}
