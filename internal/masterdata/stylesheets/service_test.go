package stylesheets

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/invoicer-app/invoicer/internal/shared"
)

type memoryRepo struct {
	sheets map[int64]Stylesheet
	nextID int64
	reads  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sheets: map[int64]Stylesheet{}}
}

func (r *memoryRepo) ListByCompany(ctx context.Context, companyID int64) ([]Stylesheet, error) {
	var out []Stylesheet
	for id := int64(1); id <= r.nextID; id++ {
		if s, ok := r.sheets[id]; ok && s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Stylesheet, error) {
	s, ok := r.sheets[id]
	if !ok {
		return Stylesheet{}, shared.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) DefaultForCompany(ctx context.Context, companyID int64) (Stylesheet, error) {
	r.reads++
	var best Stylesheet
	found := false
	for _, s := range r.sheets {
		if s.CompanyID == companyID && (!found || s.ID > best.ID) {
			best = s
			found = true
		}
	}
	if !found {
		return Stylesheet{}, shared.ErrNoStylesheet
	}
	return best, nil
}

func (r *memoryRepo) Create(ctx context.Context, s Stylesheet) (Stylesheet, error) {
	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.sheets[s.ID] = s
	return s, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, s Stylesheet) error {
	stored, ok := r.sheets[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.ID = id
	s.CompanyID = stored.CompanyID
	r.sheets[id] = s
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.sheets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.sheets, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memoryRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemoryRepo()
	return NewService(repo, client, "invoicer"), repo, mr
}

func TestDefaultForCompanyPicksMostRecent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "Old"}, "old.css")
	require.NoError(t, err)
	_, err = svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "New"}, "new.css")
	require.NoError(t, err)

	sheet, err := svc.DefaultForCompany(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "New", sheet.Name)
	require.Equal(t, 1, repo.reads)
}

func TestDefaultForCompanyNoneConfigured(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.DefaultForCompany(context.Background(), 9)
	require.ErrorIs(t, err, shared.ErrNoStylesheet)
}

func TestDefaultForCompanyCached(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "Print"}, "print.css")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.DefaultForCompany(ctx, 1)
		require.NoError(t, err)
	}
	require.Equal(t, 1, repo.reads, "repeat lookups must hit the cache")
}

func TestWritesInvalidateDefaultCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "First"}, "a.css")
	require.NoError(t, err)
	_, err = svc.DefaultForCompany(ctx, 1)
	require.NoError(t, err)

	created, err := svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "Second"}, "b.css")
	require.NoError(t, err)

	sheet, err := svc.DefaultForCompany(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, created.ID, sheet.ID)
	require.Equal(t, 2, repo.reads)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), Stylesheet{}, "")
	var fields shared.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "company_id")
	require.Contains(t, fields, "name")
	require.Contains(t, fields, "stylesheet")
}

func TestCreateResolvesUploadPath(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), Stylesheet{CompanyID: 4, Name: "Print"}, "Print Sheet.css")
	require.NoError(t, err)
	require.Contains(t, created.Path, "invoicer/stylesheets/4/print-sheet-")
}

func TestUpdatePreservesStoredPath(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, Stylesheet{CompanyID: 1, Name: "Print"}, "print.css")
	require.NoError(t, err)

	err = svc.Update(ctx, created.ID, Stylesheet{Name: "Renamed", Path: "evil/override.css"})
	require.NoError(t, err)
	require.Equal(t, created.Path, repo.sheets[created.ID].Path)
	require.Equal(t, "Renamed", repo.sheets[created.ID].Name)
}
