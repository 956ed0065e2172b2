package client

import (
	"context"
	"errors"
	"strings"

	clienterrors "go-timetrack/internal/client/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateClientRequest) (ClientResponse, error)
	GetAll(ctx context.Context, companyID string) ([]ClientResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ClientResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateClientRequest) (ClientResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ClientResponse{}, clienterrors.ErrInvalidClientID
	}

	cl := &Client{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		InvoiceCC: req.InvoiceCC,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    "ACTIVE",
	}

	if err := s.repo.Create(ctx, cl); err != nil {
		return ClientResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*cl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]ClientResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]ClientResponse, len(rows))
	for i, cl := range rows {
		resp[i] = mapToResponse(cl)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ClientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ClientResponse{}, clienterrors.ErrInvalidClientID
	}

	cl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ClientResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*cl), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateClientRequest) (ClientResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ClientResponse{}, clienterrors.ErrInvalidClientID
	}

	cl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ClientResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil && *req.Name != "" {
		cl.Name = *req.Name
	}
	if req.Email != nil && *req.Email != "" {
		cl.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.InvoiceCC != nil {
		cl.InvoiceCC = req.InvoiceCC
	}
	if req.Phone != nil {
		cl.Phone = req.Phone
	}
	if req.Address != nil {
		cl.Address = req.Address
	}
	if req.Status != nil && *req.Status != "" {
		cl.Status = *req.Status
	}

	if err := s.repo.Update(ctx, cl); err != nil {
		return ClientResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*cl), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return clienterrors.ErrInvalidClientID
	}
	return s.repo.Delete(ctx, companyID, id)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return clienterrors.ErrClientNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_client_email" {
			return clienterrors.ErrClientAlreadyExists
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), "uq_client_email") {
		return clienterrors.ErrClientAlreadyExists
	}

	return err
}

func mapToResponse(cl Client) ClientResponse {
	return ClientResponse{
		ID:        cl.ID.String(),
		CompanyID: cl.CompanyID.String(),
		Name:      cl.Name,
		Email:     cl.Email,
		InvoiceCC: cl.InvoiceCC,
		Phone:     cl.Phone,
		Address:   cl.Address,
		Status:    cl.Status,
	}
}
