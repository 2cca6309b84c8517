package stylesheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/invoicer-app/invoicer/internal/platform/cache"
	"github.com/invoicer-app/invoicer/internal/shared"
)

const defaultTTL = 5 * time.Minute

// Service handles stylesheet selection and administration. The default
// stylesheet read sits on the printable-invoice path, so it is cached.
type Service struct {
	repo      Repository
	cache     *redis.Client
	uploadDir string
}

// NewService builds Service instance. cache may be nil, disabling the
// read-through cache.
func NewService(repo Repository, cache *redis.Client, uploadDir string) *Service {
	return &Service{repo: repo, cache: cache, uploadDir: uploadDir}
}

func defaultKey(companyID int64) string {
	return fmt.Sprintf("stylesheets:default:%d", companyID)
}

// DefaultForCompany returns the company's default stylesheet: the most
// recently created one. Zero stylesheets is a configuration error.
func (s *Service) DefaultForCompany(ctx context.Context, companyID int64) (Stylesheet, error) {
	if s.cache != nil {
		var cached Stylesheet
		if hit, err := cache.GetJSON(ctx, s.cache, defaultKey(companyID), &cached); err == nil && hit {
			return cached, nil
		}
	}
	sheet, err := s.repo.DefaultForCompany(ctx, companyID)
	if err != nil {
		return Stylesheet{}, err
	}
	if s.cache != nil {
		_ = cache.SetJSON(ctx, s.cache, defaultKey(companyID), sheet, defaultTTL)
	}
	return sheet, nil
}

func (s *Service) invalidate(ctx context.Context, companyID int64) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, defaultKey(companyID)).Err()
	}
}

func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]Stylesheet, error) {
	if companyID <= 0 {
		return nil, errors.New("invalid company ID")
	}
	return s.repo.ListByCompany(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, id int64) (Stylesheet, error) {
	if id <= 0 {
		return Stylesheet{}, errors.New("invalid stylesheet ID")
	}
	return s.repo.Get(ctx, id)
}

// Create stores a stylesheet record. Filename is the uploaded asset's
// original name; the stored path is resolved under the configured upload
// directory, scoped to the company.
func (s *Service) Create(ctx context.Context, sheet Stylesheet, filename string) (Stylesheet, error) {
	fields := shared.FieldErrors{}
	if sheet.CompanyID <= 0 {
		fields.Add("company_id", "company is required")
	}
	if strings.TrimSpace(sheet.Name) == "" {
		fields.Add("name", "stylesheet name is required")
	}
	if strings.TrimSpace(filename) == "" {
		fields.Add("stylesheet", "an uploaded file is required")
	}
	if err := fields.OrNil(); err != nil {
		return Stylesheet{}, err
	}

	sheet.Path = UploadPath(s.uploadDir, sheet.CompanyID, filename)
	created, err := s.repo.Create(ctx, sheet)
	if err != nil {
		return Stylesheet{}, err
	}
	s.invalidate(ctx, created.CompanyID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, sheet Stylesheet) error {
	if id <= 0 {
		return errors.New("invalid stylesheet ID")
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	sheet.Path = current.Path
	if err := s.repo.Update(ctx, id, sheet); err != nil {
		return err
	}
	s.invalidate(ctx, current.CompanyID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid stylesheet ID")
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, current.CompanyID)
	return nil
}
