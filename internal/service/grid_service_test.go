package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/timetable-api/internal/models"
	appErrors "github.com/campusgrid/timetable-api/pkg/errors"
)

type gridCacheStub struct {
	items map[string][]byte
	sets  int
}

func newGridCacheStub() *gridCacheStub {
	return &gridCacheStub{items: map[string][]byte{}}
}

func (c *gridCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *gridCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	c.sets++
	return nil
}

type cacheMetricsStub struct {
	hits   int
	misses int
}

func (m *cacheMetricsStub) RecordCacheOperation(hit bool, duration time.Duration) {
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

type draftResolverStub struct {
	draft     *models.TimetableVersion
	published *models.TimetableVersion
	err       error
}

func (s *draftResolverStub) GetOrCreateDraft(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.draft, nil
}

func (s *draftResolverStub) GetPublished(ctx context.Context, batchID string) (*models.TimetableVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.published, nil
}

func TestGridServicePublishedGridNoPublished(t *testing.T) {
	offerings := &offeringStoreStub{items: map[string]models.OfferingDetail{}}
	events := newEventRepoStub(offerings)
	versions := &draftResolverStub{}
	svc := NewGridService(events, offerings, versions, nil, time.Minute, nil, nil)

	_, err := svc.PublishedGrid(context.Background(), "batch-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGridServicePublishedGridBuildsAndCaches(t *testing.T) {
	offerings := &offeringStoreStub{items: map[string]models.OfferingDetail{
		"off-1": {
			CourseOffering: models.CourseOffering{ID: "off-1", BatchID: "batch-1", SubjectID: "sub-1"},
			SubjectCode:    "CS101", SubjectName: "Intro to CS", SubjectType: models.SubjectTypeLecture,
		},
	}}
	events := newEventRepoStub(offerings)
	events.events["e1"] = events.detailFor(models.TimetableEvent{
		ID: "e1", VersionID: "v-pub", OfferingID: "off-1",
		DayOfWeek: 2, StartTime: "09:00:00", EndTime: "10:00:00",
	})

	publishedAt := time.Now().UTC()
	versions := &draftResolverStub{published: &models.TimetableVersion{
		ID: "v-pub", BatchID: "batch-1", Status: models.VersionStatusPublished, PublishedAt: &publishedAt,
	}}
	cache := newGridCacheStub()
	metrics := &cacheMetricsStub{}
	svc := NewGridService(events, offerings, versions, cache, time.Minute, metrics, nil)

	grid, err := svc.PublishedGrid(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, "v-pub", grid.VersionID)
	require.Contains(t, grid.Cells, "2|09:00:00")
	assert.Equal(t, "CS101", grid.Cells["2|09:00:00"].SubjectCode)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, metrics.misses)

	// second call is served from cache
	cached, err := svc.PublishedGrid(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, grid.VersionID, cached.VersionID)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, cache.sets)
}

func TestGridServiceOfferingsPlacedAnnotation(t *testing.T) {
	offerings := &offeringStoreStub{items: map[string]models.OfferingDetail{
		"off-1": {
			CourseOffering: models.CourseOffering{ID: "off-1", BatchID: "batch-1"},
			SubjectCode:    "CS101", SubjectType: models.SubjectTypeLecture,
		},
		"off-2": {
			CourseOffering: models.CourseOffering{ID: "off-2", BatchID: "batch-1"},
			SubjectCode:    "MA201", SubjectType: models.SubjectTypeLecture,
		},
	}}
	events := newEventRepoStub(offerings)
	events.events["e1"] = events.detailFor(models.TimetableEvent{
		ID: "e1", VersionID: "v-draft", OfferingID: "off-1",
		DayOfWeek: 0, StartTime: "09:00:00", EndTime: "10:00:00",
	})
	versions := &draftResolverStub{draft: &models.TimetableVersion{
		ID: "v-draft", BatchID: "batch-1", Status: models.VersionStatusDraft,
	}}
	svc := NewGridService(events, offerings, versions, nil, time.Minute, nil, nil)

	result, err := svc.Offerings(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	placed := map[string]bool{}
	for _, off := range result {
		placed[off.ID] = off.Placed
	}
	assert.True(t, placed["off-1"])
	assert.False(t, placed["off-2"])
}
