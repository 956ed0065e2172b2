package project_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-timetrack/internal/client"
	"go-timetrack/internal/project"
	projecterrors "go-timetrack/internal/project/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findAllCalls         int
	createFn             func(ctx context.Context, p *project.Project) error
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*project.Project, error)
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]project.Project, error)
	updateFn             func(ctx context.Context, p *project.Project) error
	deleteFn             func(ctx context.Context, companyID, id string) error
	upsertPayRateFn      func(ctx context.Context, rate *project.UserPayRate) error
	findPayRateFn        func(ctx context.Context, userID, projectID string) (*project.UserPayRate, error)
}

func (f *fakeRepo) Create(ctx context.Context, p *project.Project) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*project.Project, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]project.Project, error) {
	f.findAllCalls++
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeRepo) Update(ctx context.Context, p *project.Project) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakeRepo) UpsertPayRate(ctx context.Context, rate *project.UserPayRate) error {
	if f.upsertPayRateFn != nil {
		return f.upsertPayRateFn(ctx, rate)
	}
	return nil
}

func (f *fakeRepo) FindPayRate(ctx context.Context, userID, projectID string) (*project.UserPayRate, error) {
	if f.findPayRateFn != nil {
		return f.findPayRateFn(ctx, userID, projectID)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeClientRepo struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*client.Client, error)
}

func (f *fakeClientRepo) Create(ctx context.Context, cl *client.Client) error { return nil }
func (f *fakeClientRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*client.Client, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeClientRepo) FindAllByCompany(ctx context.Context, companyID string) ([]client.Client, error) {
	return nil, nil
}
func (f *fakeClientRepo) Update(ctx context.Context, cl *client.Client) error { return nil }
func (f *fakeClientRepo) Delete(ctx context.Context, companyID, id string) error {
	return nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	clientID := uuid.New()

	clientRepo := &fakeClientRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cID, id string) (*client.Client, error) {
			if id == clientID.String() {
				return &client.Client{ID: clientID, CompanyID: companyID}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	t.Run("Success Invalidates Options Cache", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepo{}
		svc := project.NewService(repo, clientRepo, rdb)

		redisMock.ExpectDel(project.GetProjectOptionsKey(companyID.String())).SetVal(1)

		resp, err := svc.Create(ctx, companyID.String(), project.CreateProjectRequest{
			ClientID: clientID.String(),
			Name:     "Website Redesign",
		})

		assert.NoError(t, err)
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Client From Another Company", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := project.NewService(&fakeRepo{}, clientRepo, rdb)

		_, err := svc.Create(ctx, companyID.String(), project.CreateProjectRequest{
			ClientID: uuid.NewString(),
			Name:     "Website Redesign",
		})
		assert.ErrorIs(t, err, projecterrors.ErrClientNotInCompany)
	})
}

func TestService_GetOptions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	clientID := uuid.New()
	cacheKey := project.GetProjectOptionsKey(companyID.String())

	projects := []project.Project{
		{ID: uuid.New(), CompanyID: companyID, ClientID: clientID, Name: "Active One"},
		{ID: uuid.New(), CompanyID: companyID, ClientID: clientID, Name: "Archived One", Archived: true},
	}

	t.Run("Cache Miss Fills Cache And Skips Archived", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepo{
			findAllByCompanyFn: func(ctx context.Context, cID string) ([]project.Project, error) {
				return projects, nil
			},
		}
		svc := project.NewService(repo, &fakeClientRepo{}, rdb)

		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.Regexp().ExpectSet(cacheKey, `.+`, 10*time.Minute).SetVal("OK")

		options, err := svc.GetOptions(ctx, companyID.String())

		assert.NoError(t, err)
		assert.Len(t, options, 1)
		assert.Equal(t, "Active One", options[0].Name)
		assert.Equal(t, 1, repo.findAllCalls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("Cache Hit Skips Database", func(t *testing.T) {
		cached, _ := json.Marshal([]project.ProjectOption{
			{ID: projects[0].ID.String(), Name: "Active One", ClientID: clientID.String()},
		})

		rdb, redisMock := redismock.NewClientMock()
		repo := &fakeRepo{}
		svc := project.NewService(repo, &fakeClientRepo{}, rdb)

		redisMock.ExpectGet(cacheKey).SetVal(string(cached))

		options, err := svc.GetOptions(ctx, companyID.String())

		assert.NoError(t, err)
		assert.Len(t, options, 1)
		assert.Equal(t, 0, repo.findAllCalls)
	})
}

func TestService_SetPayRate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New()
	projectID := uuid.New()
	userID := uuid.New()

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, cID, id string) (*project.Project, error) {
			return &project.Project{ID: projectID, CompanyID: companyID}, nil
		},
	}
	rdb, _ := redismock.NewClientMock()
	svc := project.NewService(repo, &fakeClientRepo{}, rdb)

	t.Run("Defaults Currency", func(t *testing.T) {
		resp, err := svc.SetPayRate(ctx, companyID.String(), projectID.String(), project.SetPayRateRequest{
			UserID:      userID.String(),
			PayRate:     20,
			InvoiceRate: 35,
		})

		assert.NoError(t, err)
		assert.Equal(t, "$", resp.Currency)
		assert.Equal(t, 20.0, resp.PayRate)
		assert.Equal(t, 35.0, resp.InvoiceRate)
	})

	t.Run("Unknown Project", func(t *testing.T) {
		missingRepo := &fakeRepo{}
		svc := project.NewService(missingRepo, &fakeClientRepo{}, rdb)

		_, err := svc.SetPayRate(ctx, companyID.String(), projectID.String(), project.SetPayRateRequest{
			UserID: userID.String(),
		})
		assert.ErrorIs(t, err, projecterrors.ErrProjectNotFound)
	})
}
