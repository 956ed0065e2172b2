package company

import (
	"context"
	"errors"
	"strings"
	"time"

	companyerrors "go-timetrack/internal/company/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error) {
	trialEnd := time.Now().UTC().Add(14 * 24 * time.Hour)

	c := &Company{
		ID:                 uuid.New(),
		Name:               req.Name,
		CompanyCode:        strings.ToLower(strings.TrimSpace(req.CompanyCode)),
		Status:             "ACTIVE",
		Plan:               PlanStarter,
		SubscriptionStatus: SubscriptionStatusTrialing,
		TrialEndsAt:        &trialEnd,
		AdminEmail:         req.AdminEmail,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*c), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil && *req.Name != "" {
		c.Name = *req.Name
	}
	if req.Status != nil {
		switch *req.Status {
		case "ACTIVE", "INACTIVE":
			c.Status = *req.Status
		default:
			return CompanyResponse{}, companyerrors.ErrInvalidStatus
		}
	}
	if req.AdminEmail != nil && *req.AdminEmail != "" {
		c.AdminEmail = *req.AdminEmail
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*c), nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return companyerrors.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_company_code" {
			return companyerrors.ErrCompanyCodeAlreadyExists
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "uq_company_code") {
		return companyerrors.ErrCompanyCodeAlreadyExists
	}

	return err
}

func mapToResponse(c Company) CompanyResponse {
	resp := CompanyResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		CompanyCode:        c.CompanyCode,
		Status:             c.Status,
		Plan:               c.Plan,
		SubscriptionID:     c.SubscriptionID,
		SubscriptionStatus: c.SubscriptionStatus,
		AdminEmail:         c.AdminEmail,
	}
	if c.TrialEndsAt != nil {
		v := c.TrialEndsAt.Format(time.RFC3339)
		resp.TrialEndsAt = &v
	}
	return resp
}
