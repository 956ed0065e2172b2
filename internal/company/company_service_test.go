package company

import (
	"context"
	"database/sql"
	"testing"
	"time"

	companyerrors "go-timetrack/internal/company/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, c *Company) error
	findByIDFn           func(ctx context.Context, id string) (*Company, error)
	findByStripeFn       func(ctx context.Context, customerID string) (*Company, error)
	updateFn             func(ctx context.Context, c *Company) error
	updateSubscriptionFn func(ctx context.Context, id string, fields SubscriptionFields) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, c *Company) error {
	return f.createFn(ctx, c)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Company, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByStripeCustomerID(ctx context.Context, customerID string) (*Company, error) {
	return f.findByStripeFn(ctx, customerID)
}
func (f *fakeRepo) Update(ctx context.Context, c *Company) error {
	return f.updateFn(ctx, c)
}
func (f *fakeRepo) UpdateSubscription(ctx context.Context, id string, fields SubscriptionFields) error {
	return f.updateSubscriptionFn(ctx, id, fields)
}

func activeCompany(id uuid.UUID) *Company {
	return &Company{
		ID:                 id,
		Name:               "Acme Consulting",
		CompanyCode:        "acme",
		Status:             "ACTIVE",
		Plan:               PlanStarter,
		SubscriptionStatus: SubscriptionStatusTrialing,
		AdminEmail:         "admin@acme.test",
	}
}

func TestService_Create(t *testing.T) {
	t.Run("Success Sets Trial Defaults", func(t *testing.T) {
		var created *Company
		repo := &fakeRepo{
			createFn: func(ctx context.Context, c *Company) error {
				created = c
				return nil
			},
		}
		svc := NewService(repo)

		resp, err := svc.Create(context.Background(), CreateCompanyRequest{
			Name:        "Acme Consulting",
			CompanyCode: "  ACME  ",
			AdminEmail:  "admin@acme.test",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, "acme", created.CompanyCode)
		assert.Equal(t, "ACTIVE", created.Status)
		assert.Equal(t, PlanStarter, created.Plan)
		assert.Equal(t, SubscriptionStatusTrialing, created.SubscriptionStatus)
		if assert.NotNil(t, created.TrialEndsAt) {
			remaining := time.Until(*created.TrialEndsAt)
			assert.Greater(t, remaining, 13*24*time.Hour)
			assert.LessOrEqual(t, remaining, 14*24*time.Hour)
		}
		assert.Equal(t, "acme", resp.CompanyCode)
		assert.NotNil(t, resp.TrialEndsAt)
	})

	t.Run("Duplicate Company Code", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, c *Company) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_company_code"}
			},
		}
		svc := NewService(repo)

		_, err := svc.Create(context.Background(), CreateCompanyRequest{
			Name:        "Acme Consulting",
			CompanyCode: "acme",
			AdminEmail:  "admin@acme.test",
		})
		assert.ErrorIs(t, err, companyerrors.ErrCompanyCodeAlreadyExists)
	})
}

func TestService_GetByID(t *testing.T) {
	t.Run("Invalid ID", func(t *testing.T) {
		svc := NewService(&fakeRepo{})

		_, err := svc.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, companyerrors.ErrInvalidCompanyID)
	})

	t.Run("Not Found", func(t *testing.T) {
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, id string) (*Company, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := NewService(repo)

		_, err := svc.GetByID(context.Background(), uuid.New().String())
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("Partial Update Keeps Other Fields", func(t *testing.T) {
		id := uuid.New()
		var saved *Company
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID string) (*Company, error) {
				return activeCompany(id), nil
			},
			updateFn: func(ctx context.Context, c *Company) error {
				saved = c
				return nil
			},
		}
		svc := NewService(repo)

		name := "Acme Consulting GmbH"
		resp, err := svc.Update(context.Background(), id.String(), UpdateCompanyRequest{Name: &name})

		assert.NoError(t, err)
		assert.Equal(t, name, saved.Name)
		assert.Equal(t, "acme", saved.CompanyCode)
		assert.Equal(t, "admin@acme.test", saved.AdminEmail)
		assert.Equal(t, name, resp.Name)
	})

	t.Run("Invalid Status Is Refused Before Write", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID string) (*Company, error) {
				return activeCompany(id), nil
			},
			updateFn: func(ctx context.Context, c *Company) error {
				t.Fatal("a rejected status must not reach the repository")
				return nil
			},
		}
		svc := NewService(repo)

		status := "SUSPENDED"
		_, err := svc.Update(context.Background(), id.String(), UpdateCompanyRequest{Status: &status})
		assert.ErrorIs(t, err, companyerrors.ErrInvalidStatus)
	})

	t.Run("Deactivation", func(t *testing.T) {
		id := uuid.New()
		var saved *Company
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, companyID string) (*Company, error) {
				return activeCompany(id), nil
			},
			updateFn: func(ctx context.Context, c *Company) error {
				saved = c
				return nil
			},
		}
		svc := NewService(repo)

		status := "INACTIVE"
		_, err := svc.Update(context.Background(), id.String(), UpdateCompanyRequest{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, "INACTIVE", saved.Status)
	})
}
