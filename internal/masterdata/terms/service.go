package terms

import (
	"context"
	"errors"
	"strings"

	"github.com/invoicer-app/invoicer/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(t Terms) error {
	fields := shared.FieldErrors{}
	if strings.TrimSpace(t.Name) == "" {
		fields.Add("name", "terms name is required")
	}
	return fields.OrNil()
}

func (s *Service) List(ctx context.Context) ([]Terms, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Terms, error) {
	if id <= 0 {
		return Terms{}, errors.New("invalid terms ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, t Terms) (Terms, error) {
	if err := s.validate(t); err != nil {
		return Terms{}, err
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Update(ctx context.Context, id int64, t Terms) error {
	if id <= 0 {
		return errors.New("invalid terms ID")
	}
	if err := s.validate(t); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, t)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid terms ID")
	}
	return s.repo.Delete(ctx, id)
}
