package clients

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

func (s *Service) validate(c Client) error {
	fields := shared.FieldErrors{}
	if strings.TrimSpace(c.Name) == "" {
		fields.Add("name", "client name is required")
	}
	return fields.OrNil()
}

func (s *Service) List(ctx context.Context, filters mdshared.ListFilters) ([]Client, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Client, error) {
	if id <= 0 {
		return Client{}, errors.New("invalid client ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, client Client) (Client, error) {
	if err := s.validate(client); err != nil {
		return Client{}, err
	}
	return s.repo.Create(ctx, client)
}

func (s *Service) Update(ctx context.Context, id int64, client Client) error {
	if id <= 0 {
		return errors.New("invalid client ID")
	}
	if err := s.validate(client); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, client)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid client ID")
	}
	return s.repo.Delete(ctx, id)
}
