package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yralfoods/donut-shop/internal/cache"
	"github.com/yralfoods/donut-shop/internal/domain"
	"github.com/yralfoods/donut-shop/internal/repository"
)

var ErrQuantityTooLow = errors.New("quantity must be at least 1")

// GuestStore is the anonymous-session cart backend. Matches the signed-in
// repository operation for operation so the service can dispatch on session.
type GuestStore interface {
	Items(ctx context.Context, guestID string) ([]domain.CartItem, error)
	AddEntry(ctx context.Context, guestID string, item domain.CartItem) (string, error)
	UpdateQuantity(ctx context.Context, guestID, entryID string, quantity int) error
	RemoveEntry(ctx context.Context, guestID, entryID string) error
}

type Service struct {
	repo  repository.CartRepository
	guest GuestStore
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, guest GuestStore, c cache.CartCache) *Service {
	return &Service{
		repo:  repo,
		guest: guest,
		cache: c,
	}
}

// Items enumerates the session's cart. Signed-in carts go through the cache;
// guest carts are read straight from the guest store.
func (s *Service) Items(ctx context.Context, session domain.Session) ([]domain.CartItem, error) {
	if !session.Authenticated() {
		return s.guest.Items(ctx, session.GuestID)
	}

	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(session.UserID, func() (interface{}, error) {
		items, err := s.cache.Get(ctx, session.UserID)
		if err == nil {
			return items, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		items, errGet := s.repo.ItemsForUser(ctx, session.UserID)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), session.UserID, items)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.CartItem), nil
}

func (s *Service) AddItem(ctx context.Context, session domain.Session, item domain.CartItem) (string, error) {
	if item.Quantity < 1 {
		return "", ErrQuantityTooLow
	}

	if !session.Authenticated() {
		return s.guest.AddEntry(ctx, session.GuestID, item)
	}

	item.UserID = session.UserID
	entryID, err := s.repo.AddEntry(ctx, item)
	if err != nil {
		log.Printf("repo add entry error: %v \n", err)
		return "", err
	}

	s.invalidateCache(session.UserID)
	return entryID, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, session domain.Session, entryID string, quantity int) error {
	if quantity < 1 {
		return ErrQuantityTooLow
	}

	if !session.Authenticated() {
		return s.guest.UpdateQuantity(ctx, session.GuestID, entryID, quantity)
	}

	if err := s.repo.UpdateQuantity(ctx, session.UserID, entryID, quantity); err != nil {
		log.Printf("repo update quantity error: %v \n", err)
		return err
	}

	s.invalidateCache(session.UserID)
	return nil
}

func (s *Service) RemoveEntry(ctx context.Context, session domain.Session, entryID string) error {
	if !session.Authenticated() {
		return s.guest.RemoveEntry(ctx, session.GuestID, entryID)
	}

	if err := s.repo.RemoveEntry(ctx, session.UserID, entryID); err != nil {
		log.Printf("repo remove entry error: %v \n", err)
		return err
	}

	s.invalidateCache(session.UserID)
	return nil
}

func (s *Service) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
