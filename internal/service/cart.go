package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/academy/internal/models"
	"github.com/example/academy/internal/repository"
)

type CartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

// CartSnapshot is a read-only view of the user's active cart.
type CartSnapshot struct {
	CartID *uuid.UUID        `json:"cart_id"`
	Items  []models.CartItem `json:"items"`
	Total  int64             `json:"total"`
}

// Add puts the referenced item into the active cart at its current final
// price. Adding an item that is already there returns it with added=false.
func (s *CartService) Add(ctx context.Context, userID uuid.UUID, ref models.ContentRef) (*models.CartItem, bool, error) {
	var (
		item  *models.CartItem
		added bool
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		price, err := priceOf(ctx, tx, ref)
		if err != nil {
			return err
		}

		cart, err := activeCart(ctx, tx, userID, true)
		if err != nil {
			return err
		}
		if cart.Status != models.CartCreated {
			return ErrCheckoutInProgress
		}

		existing, err := tx.Carts.FindItem(ctx, cart.ID, ref)
		if err == nil {
			item = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		item = &models.CartItem{
			CartID:      cart.ID,
			ContentType: ref.Kind,
			MediaID:     ref.ID,
			Price:       price,
		}
		if err := tx.Carts.AddItem(ctx, item); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return item, added, nil
}

// Remove deletes the referenced item from the active cart.
func (s *CartService) Remove(ctx context.Context, userID uuid.UUID, ref models.ContentRef) error {
	return s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cart, err := activeCart(ctx, tx, userID, false)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrNotFound
		}
		if cart.Status != models.CartCreated {
			return ErrCheckoutInProgress
		}

		item, err := tx.Carts.FindItem(ctx, cart.ID, ref)
		if err != nil {
			return err
		}
		deleted, err := tx.Carts.DeleteItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

// Snapshot sums the active cart without modifying anything.
func (s *CartService) Snapshot(ctx context.Context, userID uuid.UUID) (*CartSnapshot, error) {
	cart, err := activeCart(ctx, s.repo, userID, false)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartSnapshot{Items: []models.CartItem{}}, nil
	}
	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	return &CartSnapshot{CartID: &cart.ID, Items: items, Total: cart.Total()}, nil
}

// activeCart follows the user's active cart pointer. With create set, a
// missing cart is created and claimed. Without it, a missing cart is nil.
func activeCart(ctx context.Context, repo *repository.Repository, userID uuid.UUID, create bool) (*models.Cart, error) {
	user, err := repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ActiveCartID != nil {
		return repo.Carts.GetWithItems(ctx, *user.ActiveCartID)
	}
	if !create {
		return nil, nil
	}

	cart := &models.Cart{UserID: userID, Status: models.CartCreated}
	if err := repo.Carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	claimed, err := repo.Users.ClaimActiveCart(ctx, userID, cart.ID)
	if err != nil {
		return nil, err
	}
	if claimed {
		return cart, nil
	}

	// another request claimed a cart first
	if err := repo.Carts.Delete(ctx, cart.ID); err != nil {
		return nil, err
	}
	user, err = repo.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ActiveCartID == nil {
		return nil, fmt.Errorf("active cart for user %s vanished", userID)
	}
	return repo.Carts.GetWithItems(ctx, *user.ActiveCartID)
}
