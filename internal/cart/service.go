package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/4PPL8/wahabstore/internal/cache"
	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/4PPL8/wahabstore/internal/notify"
	"github.com/4PPL8/wahabstore/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Service owns the authoritative line-item sequence for each session.
// Every mutation rewrites the full cart document and invalidates the cache.
type Service struct {
	repo     repository.CartRepository
	cache    cache.CartCache
	notifier notify.Notifier
	sfg      singleflight.Group // Prevents cache stampede
}

func NewService(repo repository.CartRepository, cache cache.CartCache, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {

		cached, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cached, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		loaded, errGet := s.repo.GetCart(ctx, sessionID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return emptyCart(sessionID), nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), sessionID, loaded)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return loaded, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// AddItem appends a new line or accumulates quantity on an existing one.
// Repeated adds of the same product stack, they never overwrite.
func (s *Service) AddItem(ctx context.Context, sessionID string, product *domain.Product, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := c.FindItem(product.ID); i >= 0 {
		c.Items[i].Quantity += quantity
		s.notifier.Success(fmt.Sprintf("Added another %s to cart", product.Name))
	} else {
		c.Items = append(c.Items, domain.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Brand:     product.Brand,
			Category:  product.Category,
			Price:     product.Price,
			ImageURL:  product.ImageURL,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
		s.notifier.Success(fmt.Sprintf("%s added to cart", product.Name))
	}

	return s.persist(ctx, c)
}

// UpdateQuantity replaces a line's quantity. Values below 1 are silently
// ignored; dropping a line goes through RemoveItem, never through a zero
// quantity. An unknown product id is also a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		return c, nil
	}

	i := c.FindItem(productID)
	if i < 0 {
		return c, nil
	}
	c.Items[i].Quantity = quantity

	return s.persist(ctx, c)
}

// RemoveItem deletes the line holding productID. Removing an absent id is
// not an error and leaves the remaining lines untouched.
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := c.FindItem(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	s.notifier.Success("Item removed from cart")

	return s.persist(ctx, c)
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.Items = []domain.LineItem{}
	s.notifier.Success("Cart cleared")

	return s.persist(ctx, c)
}

// load reads the current cart straight from the repository, bypassing the
// cache: mutations must start from the durable record.
func (s *Service) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	c, err := s.repo.GetCart(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return emptyCart(sessionID), nil
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) persist(ctx context.Context, c *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.UpsertCart(ctx, c); err != nil {
		log.Printf("repo upsert cart error: %v \n", err)
		return nil, err
	}

	invalidateCache(s, c.SessionID)
	return c, nil
}

func emptyCart(sessionID string) *domain.Cart {
	return &domain.Cart{
		SessionID: sessionID,
		Items:     []domain.LineItem{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func invalidateCache(s *Service, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, sessionID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
