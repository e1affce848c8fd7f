package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yralfoods/donut-shop/internal/domain"
)

var ErrGuestEntryNotFound = errors.New("guest cart entry not found")

// GuestCartStore keeps anonymous-session carts as a JSON list under a
// per-guest key, the server-side counterpart of the old device-local guest
// cart. Entries expire with the key; abandoned guest carts just age out.
type GuestCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuestCartStore(client *redis.Client) *GuestCartStore {
	return &GuestCartStore{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func guestKey(guestID string) string {
	return fmt.Sprintf("guest_cart:%s", guestID)
}

func (s *GuestCartStore) Items(ctx context.Context, guestID string) ([]domain.CartItem, error) {
	data, err := s.client.Get(ctx, guestKey(guestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get guest cart failed: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal guest cart failed: %w", err)
	}
	return items, nil
}

func (s *GuestCartStore) save(ctx context.Context, guestID string, items []domain.CartItem) error {
	key := guestKey(guestID)
	if len(items) == 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis delete guest cart failed: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal guest cart failed: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set guest cart failed: %w", err)
	}
	return nil
}

func (s *GuestCartStore) AddEntry(ctx context.Context, guestID string, item domain.CartItem) (string, error) {
	items, err := s.Items(ctx, guestID)
	if err != nil {
		return "", err
	}

	item.EntryID = uuid.NewString()
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	items = append(items, item)

	if err := s.save(ctx, guestID, items); err != nil {
		return "", err
	}
	return item.EntryID, nil
}

func (s *GuestCartStore) UpdateQuantity(ctx context.Context, guestID, entryID string, quantity int) error {
	items, err := s.Items(ctx, guestID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].EntryID == entryID {
			items[i].Quantity = quantity
			return s.save(ctx, guestID, items)
		}
	}
	return ErrGuestEntryNotFound
}

func (s *GuestCartStore) RemoveEntry(ctx context.Context, guestID, entryID string) error {
	items, err := s.Items(ctx, guestID)
	if err != nil {
		return err
	}

	for i, it := range items {
		if it.EntryID == entryID {
			items = append(items[:i], items[i+1:]...)
			return s.save(ctx, guestID, items)
		}
	}
	return ErrGuestEntryNotFound
}
