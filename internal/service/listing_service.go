package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
)

const listingKeyPrefix = "listing:"

type listingSource interface {
	List(ctx context.Context) ([]models.Enrollment, error)
	Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ListingService keeps per-client listing snapshots. A snapshot only changes on an explicit
// search, reload or clear; enrollments created after it was loaded stay invisible until then.
type ListingService struct {
	source listingSource
	cache  snapshotCache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewListingService constructs ListingService.
func NewListingService(source listingSource, cache snapshotCache, ttl time.Duration, logger *zap.Logger) *ListingService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{source: source, cache: cache, ttl: ttl, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Open loads the whole collection into a new snapshot with no filter applied.
func (s *ListingService) Open(ctx context.Context) (*dto.ListingResponse, error) {
	loaded, err := s.source.List(ctx)
	if err != nil {
		return nil, storeReadError(err, "failed to load enrollments")
	}
	now := s.now()
	snapshot := &models.ListingSnapshot{
		ID:         uuid.NewString(),
		Loaded:     loaded,
		Results:    loaded,
		LoadedAt:   now,
		SearchedAt: now,
	}
	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	s.logger.Debug("listing opened", zap.String("listing_id", snapshot.ID), zap.Int("total", len(loaded)))
	return toListingResponse(snapshot), nil
}

// Get returns the snapshot as last computed, without reading the store.
func (s *ListingService) Get(ctx context.Context, id string) (*dto.ListingResponse, error) {
	snapshot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toListingResponse(snapshot), nil
}

// Search re-runs the filter against the live store and stores the results in the snapshot.
func (s *ListingService) Search(ctx context.Context, id string, query models.EnrollmentQuery) (*dto.ListingResponse, error) {
	snapshot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	query = NormalizeQuery(query)
	results, err := s.source.Search(ctx, query)
	if err != nil {
		return nil, storeReadError(err, "failed to search enrollments")
	}
	snapshot.Filter = query
	snapshot.Results = results
	snapshot.SearchedAt = s.now()
	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	return toListingResponse(snapshot), nil
}

// Reload refreshes the loaded collection and reapplies the current filter to it.
func (s *ListingService) Reload(ctx context.Context, id string) (*dto.ListingResponse, error) {
	snapshot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded, err := s.source.List(ctx)
	if err != nil {
		return nil, storeReadError(err, "failed to load enrollments")
	}
	now := s.now()
	snapshot.Loaded = loaded
	snapshot.Results = models.FilterEnrollments(loaded, snapshot.Filter)
	snapshot.LoadedAt = now
	snapshot.SearchedAt = now
	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	return toListingResponse(snapshot), nil
}

// Clear drops the filter and shows the loaded collection again.
func (s *ListingService) Clear(ctx context.Context, id string) (*dto.ListingResponse, error) {
	snapshot, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot.Filter = models.EnrollmentQuery{}
	snapshot.Results = snapshot.Loaded
	snapshot.SearchedAt = s.now()
	if err := s.save(ctx, snapshot); err != nil {
		return nil, err
	}
	return toListingResponse(snapshot), nil
}

// Close discards a snapshot.
func (s *ListingService) Close(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, listingKeyPrefix+id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard listing")
	}
	return nil
}

func (s *ListingService) load(ctx context.Context, id string) (*models.ListingSnapshot, error) {
	var snapshot models.ListingSnapshot
	hit, err := s.cache.Get(ctx, listingKeyPrefix+id, &snapshot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load listing")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "listing not found or expired")
	}
	return &snapshot, nil
}

func (s *ListingService) save(ctx context.Context, snapshot *models.ListingSnapshot) error {
	if err := s.cache.Set(ctx, listingKeyPrefix+snapshot.ID, snapshot, s.ttl); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store listing")
	}
	return nil
}

func toListingResponse(snapshot *models.ListingSnapshot) *dto.ListingResponse {
	rows := make([]models.ListingRow, 0, len(snapshot.Results))
	for _, e := range snapshot.Results {
		rows = append(rows, models.NewListingRow(e))
	}
	return &dto.ListingResponse{
		ID:         snapshot.ID,
		Filter:     snapshot.Filter,
		Rows:       rows,
		Total:      len(rows),
		LoadedAt:   snapshot.LoadedAt,
		SearchedAt: snapshot.SearchedAt,
	}
}
