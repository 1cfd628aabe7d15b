// File: internal/favorite/service.go
package favorite

import (
	"context"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/config"
	"parking_share_backend/internal/parking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for favorite business logic.
type Service interface {
	// Toggle flips the favorite state and reports the resulting state:
	// true when the listing was added, false when it was removed.
	Toggle(ctx context.Context, userID, parkingID uuid.UUID) (*ToggleResponse, error)
	ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	// ListParkings resolves the user's favorites to full listings in
	// favorited order, fetching in bounded ID chunks.
	ListParkings(ctx context.Context, userID uuid.UUID) ([]parking.ParkingResponse, error)
}

type serviceImpl struct {
	repo        Repository
	parkingRepo parking.Repository
	chunkSize   int
	logger      *zap.Logger
}

// NewService creates a new favorite service.
func NewService(repo Repository, parkingRepo parking.Repository, cfg *config.Config, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:        repo,
		parkingRepo: parkingRepo,
		chunkSize:   cfg.FavoritesLookupChunkSize,
		logger:      logger.Named("FavoriteService"),
	}
}

func (s *serviceImpl) Toggle(ctx context.Context, userID, parkingID uuid.UUID) (*ToggleResponse, error) {
	// The listing must exist; favoriting a ghost gives a 404.
	if _, err := s.parkingRepo.FindByID(ctx, parkingID); err != nil {
		return nil, err
	}

	removed, err := s.repo.Delete(ctx, userID, parkingID)
	if err != nil {
		s.logger.Error("Failed to toggle favorite", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update favorite.")
	}
	if removed {
		return &ToggleResponse{ParkingID: parkingID, Favorited: false}, nil
	}

	if err := s.repo.Create(ctx, &Favorite{ID: uuid.New(), UserID: userID, ParkingID: parkingID}); err != nil {
		s.logger.Error("Failed to toggle favorite", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update favorite.")
	}
	return &ToggleResponse{ParkingID: parkingID, Favorited: true}, nil
}

func (s *serviceImpl) ListIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.FindParkingIDsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list favorite IDs", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not load favorites.")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

func (s *serviceImpl) ListParkings(ctx context.Context, userID uuid.UUID) ([]parking.ParkingResponse, error) {
	ids, err := s.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []parking.ParkingResponse{}, nil
	}

	// Fetch in chunks of at most chunkSize IDs. The first failing chunk
	// aborts the whole lookup; a partial favorites list would be worse
	// than an error.
	byID := make(map[uuid.UUID]parking.Parking, len(ids))
	for start := 0; start < len(ids); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk, err := s.parkingRepo.FindByIDs(ctx, ids[start:end])
		if err != nil {
			s.logger.Error("Favorite chunk lookup failed",
				zap.String("userID", userID.String()),
				zap.Int("chunkStart", start),
				zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not load favorites.")
		}
		for i := range chunk {
			byID[chunk[i].ID] = chunk[i]
		}
	}

	// Reassemble in favorited order. Deleted or pending listings drop out
	// silently; a stale favorite row is not an error.
	responses := make([]parking.ParkingResponse, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.Visible() {
			continue
		}
		responses = append(responses, parking.ToParkingResponse(&p, nil))
	}
	return responses, nil
}
