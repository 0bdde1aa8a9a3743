package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type gridCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

type draftResolver interface {
	GetOrCreateDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error)
	GetPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error)
}

// GridView is the rendering read model: every committed event of a version
// keyed by its canonical cell.
type GridView struct {
	BatchID     string                        `json:"batch_id"`
	VersionID   string                        `json:"version_id"`
	Status      models.VersionStatus          `json:"status"`
	PublishedAt *time.Time                    `json:"published_at,omitempty"`
	Cells       map[string]models.EventDetail `json:"cells"`
	GeneratedAt time.Time                     `json:"generated_at"`
}

// GridService assembles display read models on top of the event store.
type GridService struct {
	events    eventRepository
	offerings offeringReader
	versions  draftResolver
	cache     gridCache
	cacheTTL  time.Duration
	metrics   cacheMetrics
	logger    *zap.Logger
}

// NewGridService instantiates GridService. Cache and metrics may be nil.
func NewGridService(events eventRepository, offerings offeringReader, versions draftResolver, cache gridCache, cacheTTL time.Duration, metrics cacheMetrics, logger *zap.Logger) *GridService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &GridService{
		events:    events,
		offerings: offerings,
		versions:  versions,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// PublishedGrid returns the cell-keyed read model of the batch's published
// version. Results are cached; publish invalidates the entry.
func (s *GridService) PublishedGrid(ctx context.Context, batchID string) (*GridView, error) {
	key := publishedGridCacheKey(batchID)

	if s.cache != nil {
		start := time.Now()
		var cached GridView
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			s.recordCache(true, time.Since(start))
			return &cached, nil
		}
		s.recordCache(false, time.Since(start))
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("published grid cache read failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	}

	published, err := s.versions.GetPublished(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if published == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no published timetable for this batch")
	}

	events, err := s.events.ListDetailsByVersion(ctx, published.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list published events")
	}

	view := &GridView{
		BatchID:     batchID,
		VersionID:   published.ID,
		Status:      published.Status,
		PublishedAt: published.PublishedAt,
		Cells:       make(map[string]models.EventDetail, len(events)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, event := range events {
		view.Cells[event.CellKey()] = event
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view, s.cacheTTL); err != nil {
			s.logger.Warn("published grid cache write failed", zap.String("batch_id", batchID), zap.Error(err))
		}
	}
	return view, nil
}

// Offerings lists the batch's placeable offerings, each annotated with
// whether the current draft already contains a placement for it.
func (s *GridService) Offerings(ctx context.Context, batchID string) ([]models.OfferingDetail, error) {
	offerings, err := s.offerings.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offerings")
	}

	draft, err := s.versions.GetOrCreateDraft(ctx, batchID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListDetailsByVersion(ctx, draft.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list draft events")
	}

	placed := make(map[string]struct{}, len(events))
	for _, event := range events {
		placed[event.OfferingID] = struct{}{}
	}
	for i := range offerings {
		_, ok := placed[offerings[i].ID]
		offerings[i].Placed = ok
	}
	return offerings, nil
}

func (s *GridService) recordCache(hit bool, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, duration)
	}
}
