package items

import (
	"context"
	"errors"
	"strings"

	mdshared "github.com/invoicer-app/invoicer/internal/masterdata/shared"
	"github.com/invoicer-app/invoicer/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(it Item) error {
	fields := shared.FieldErrors{}
	if strings.TrimSpace(it.Name) == "" {
		fields.Add("name", "item name is required")
	}
	if it.Price.IsNegative() {
		fields.Add("price", "price cannot be negative")
	}
	if it.Price.Exponent() < -2 {
		fields.Add("price", "price supports at most 2 decimal places")
	}
	if it.Cost != nil && it.Cost.Exponent() < -2 {
		fields.Add("cost", "cost supports at most 2 decimal places")
	}
	return fields.OrNil()
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, errors.New("invalid item ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, item Item) (Item, error) {
	if err := s.validate(item); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, item)
}

func (s *Service) Update(ctx context.Context, id int64, item Item) error {
	if id <= 0 {
		return errors.New("invalid item ID")
	}
	if err := s.validate(item); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, item)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid item ID")
	}
	return s.repo.Delete(ctx, id)
}
