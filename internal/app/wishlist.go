package app

import (
	"context"

	"babystay/internal/domain"
)

type WishlistService struct {
	wishlists domain.WishlistRepository
	repo      domain.AccommodationRepository
}

func NewWishlistService(w domain.WishlistRepository, r domain.AccommodationRepository) *WishlistService {
	return &WishlistService{wishlists: w, repo: r}
}

func (s *WishlistService) List(ctx context.Context, userID int64) ([]WishlistEntryDoc, error) {
	entries, err := s.wishlists.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapWishlist(entries), nil
}

// Add is idempotent from the caller's view: wishing an already-wished
// listing is not an error.
func (s *WishlistService) Add(ctx context.Context, userID, accommodationID int64) (domain.Wishlist, error) {
	// The listing must exist; a dangling wishlist row helps nobody.
	if _, err := s.repo.GetAccommodation(ctx, accommodationID); err != nil {
		return domain.Wishlist{}, err
	}
	if ok, err := s.wishlists.Contains(ctx, userID, accommodationID); err != nil {
		return domain.Wishlist{}, err
	} else if ok {
		// Already present; return the existing state untouched.
		entries, err := s.wishlists.ListByUser(ctx, userID)
		if err != nil {
			return domain.Wishlist{}, err
		}
		for _, e := range entries {
			if e.AccommodationID == accommodationID {
				return e.Wishlist, nil
			}
		}
	}
	return s.wishlists.Add(ctx, userID, accommodationID)
}

func (s *WishlistService) Remove(ctx context.Context, userID, accommodationID int64) error {
	removed, err := s.wishlists.Remove(ctx, userID, accommodationID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

func (s *WishlistService) Contains(ctx context.Context, userID, accommodationID int64) (bool, error) {
	return s.wishlists.Contains(ctx, userID, accommodationID)
}
