package project

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-timetrack/internal/client"
	projecterrors "go-timetrack/internal/project/errors"
	"go-timetrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const ProjectOptionsKeyPrefix = "projects:options:"

func GetProjectOptionsKey(companyID string) string {
	return ProjectOptionsKeyPrefix + companyID
}

type Service interface {
	Create(ctx context.Context, companyID string, req CreateProjectRequest) (ProjectResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ProjectResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]ProjectOption, error)
	GetByID(ctx context.Context, companyID, id string) (ProjectResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateProjectRequest) (ProjectResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	SetPayRate(ctx context.Context, companyID, projectID string, req SetPayRateRequest) (PayRateResponse, error)
	GetPayRate(ctx context.Context, userID, projectID string) (PayRateResponse, error)
}

type service struct {
	repo       Repository
	clientRepo client.Repository
	rdb        *redis.Client
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(repo Repository, clientRepo client.Repository, rdb *redis.Client) Service {
	return &service{
		repo:       repo,
		clientRepo: clientRepo,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		logger:     zap.L().Named("project.service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateProjectRequest) (ProjectResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}
	clientUUID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidClientID
	}

	if _, err := s.clientRepo.FindByIDAndCompany(ctx, companyID, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProjectResponse{}, projecterrors.ErrClientNotInCompany
		}
		return ProjectResponse{}, err
	}

	p := &Project{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		ClientID:  clientUUID,
		Name:      req.Name,
		Status:    "ACTIVE",
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create project failed", zap.String("request_id", rid), zap.Error(err))
		return ProjectResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]ProjectResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]ProjectResponse, len(rows))
	for i, p := range rows {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

// GetOptions serves the dropdown list from Redis, collapsing concurrent cache
// misses through singleflight so only one request hits the database.
func (s *service) GetOptions(ctx context.Context, companyID string) ([]ProjectOption, error) {
	cacheKey := GetProjectOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var options []ProjectOption
			if err := json.Unmarshal([]byte(cached), &options); err == nil {
				return options, nil
			}
		}
	}

	result, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		rows, err := s.repo.FindAllByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		options := make([]ProjectOption, 0, len(rows))
		for _, p := range rows {
			if p.Archived {
				continue
			}
			options = append(options, ProjectOption{
				ID:       p.ID.String(),
				Name:     p.Name,
				ClientID: p.ClientID.String(),
			})
		}

		if s.rdb != nil {
			if payload, marshalErr := json.Marshal(options); marshalErr == nil {
				_ = s.rdb.Set(ctx, cacheKey, payload, 10*time.Minute).Err()
			}
		}

		return options, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]ProjectOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}

	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*p), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateProjectRequest) (ProjectResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ProjectResponse{}, projecterrors.ErrInvalidProjectID
	}

	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil && *req.Name != "" {
		p.Name = *req.Name
	}
	if req.Status != nil && *req.Status != "" {
		p.Status = *req.Status
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return ProjectResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx, companyID)

	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return projecterrors.ErrInvalidProjectID
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateOptionsCache(ctx, companyID)
	return nil
}

func (s *service) SetPayRate(ctx context.Context, companyID, projectID string, req SetPayRateRequest) (PayRateResponse, error) {
	projectUUID, err := uuid.Parse(projectID)
	if err != nil {
		return PayRateResponse{}, projecterrors.ErrInvalidProjectID
	}
	userUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return PayRateResponse{}, projecterrors.ErrInvalidUserID
	}

	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, projectID); err != nil {
		return PayRateResponse{}, mapRepositoryError(err)
	}

	currency := req.Currency
	if currency == "" {
		currency = "$"
	}

	rate := &UserPayRate{
		ID:          uuid.New(),
		UserID:      userUUID,
		ProjectID:   projectUUID,
		PayRate:     req.PayRate,
		InvoiceRate: req.InvoiceRate,
		Currency:    currency,
	}

	if err := s.repo.UpsertPayRate(ctx, rate); err != nil {
		return PayRateResponse{}, err
	}

	return PayRateResponse{
		UserID:      rate.UserID.String(),
		ProjectID:   rate.ProjectID.String(),
		PayRate:     rate.PayRate,
		InvoiceRate: rate.InvoiceRate,
		Currency:    rate.Currency,
	}, nil
}

func (s *service) GetPayRate(ctx context.Context, userID, projectID string) (PayRateResponse, error) {
	rate, err := s.repo.FindPayRate(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayRateResponse{}, projecterrors.ErrPayRateNotFound
		}
		return PayRateResponse{}, err
	}

	return PayRateResponse{
		UserID:      rate.UserID.String(),
		ProjectID:   rate.ProjectID.String(),
		PayRate:     rate.PayRate,
		InvoiceRate: rate.InvoiceRate,
		Currency:    rate.Currency,
	}, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, GetProjectOptionsKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate project options cache failed",
			zap.String("company_id", companyID),
			zap.Error(err),
		)
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return projecterrors.ErrProjectNotFound
	}
	return err
}

func mapToResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:        p.ID.String(),
		CompanyID: p.CompanyID.String(),
		ClientID:  p.ClientID.String(),
		Name:      p.Name,
		Status:    p.Status,
		Archived:  p.Archived,
	}
	if p.Client != nil {
		resp.ClientName = p.Client.Name
	}
	return resp
}
