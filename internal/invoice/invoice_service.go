package invoice

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"go-timetrack/internal/client"
	invoiceerrors "go-timetrack/internal/invoice/errors"
	"go-timetrack/internal/project"
	"go-timetrack/internal/shared/contextutil"
	"go-timetrack/internal/shared/counter"
	"go-timetrack/internal/timeentry"
	"go-timetrack/internal/timesheet"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, companyID string, req CreateInvoiceRequest) (InvoiceResponse, error)
	CreateFromTimesheet(ctx context.Context, companyID string, req CreateFromTimesheetRequest) (InvoiceResponse, error)
	GetAll(ctx context.Context, companyID string, req GetInvoicesFilterRequest) ([]InvoiceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (InvoiceResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	UpdateStatus(ctx context.Context, companyID, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db            *sql.DB
	repo          Repository
	entryRepo     timeentry.Repository
	timesheetRepo timesheet.Repository
	clientRepo    client.Repository
	projectRepo   project.Repository
	counterRepo   counter.Repository
	logger        *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	entryRepo timeentry.Repository,
	timesheetRepo timesheet.Repository,
	clientRepo client.Repository,
	projectRepo project.Repository,
	counterRepo counter.Repository,
) Service {
	return &service{
		db:            db,
		repo:          repo,
		entryRepo:     entryRepo,
		timesheetRepo: timesheetRepo,
		clientRepo:    clientRepo,
		projectRepo:   projectRepo,
		counterRepo:   counterRepo,
		logger:        zap.L().Named("invoice.service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateInvoiceRequest) (InvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}
	clientUUID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidClientID
	}
	issueDate, dueDate, err := parseDates(req.IssueDate, req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	if _, err := s.clientRepo.FindByIDAndCompany(ctx, companyID, req.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, invoiceerrors.ErrInvalidClientID
		}
		return InvoiceResponse{}, err
	}

	invoiceID := uuid.New()
	items, err := buildItems(invoiceID, req.Items)
	if err != nil {
		return InvoiceResponse{}, err
	}

	number, err := s.counterRepo.GetNextValue(ctx, companyID, counter.TypeInvoiceNumber)
	if err != nil {
		return InvoiceResponse{}, err
	}

	inv := &Invoice{
		ID:            invoiceID,
		CompanyID:     companyUUID,
		ClientID:      clientUUID,
		InvoiceNumber: number,
		Status:        StatusPending,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		PONumber:      req.PONumber,
		Discount:      req.Discount,
		Shipping:      req.Shipping,
		TaxPercent:    req.TaxPercent,
		Notes:         req.Notes,
		Items:         items,
	}
	applyTotals(inv)

	if err := s.repo.Create(ctx, inv); err != nil {
		s.logger.Error("create invoice failed", zap.String("request_id", rid), zap.Error(err))
		return InvoiceResponse{}, err
	}

	return mapToResponse(*inv), nil
}

// CreateFromTimesheet turns the approved uninvoiced entries of a timesheet
// into a per-project invoice. Claiming the entries and writing the invoice
// happen in one transaction, and the conditional claim is what keeps two
// concurrent requests from billing the same hours twice.
func (s *service) CreateFromTimesheet(ctx context.Context, companyID string, req CreateFromTimesheetRequest) (InvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}
	issueDate, dueDate, err := parseDates(req.IssueDate, req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	ts, err := s.timesheetRepo.FindByIDAndCompany(ctx, companyID, req.TimesheetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
		}
		return InvoiceResponse{}, err
	}
	if ts.Status != timesheet.StatusApproved {
		return InvoiceResponse{}, invoiceerrors.ErrTimesheetNotApproved
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qInvoices := s.repo.WithTx(tx)
	qEntries := s.entryRepo.WithTx(tx)

	hours, err := qEntries.SumProjectHours(ctx, companyID, req.TimesheetID)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if len(hours) == 0 {
		return InvoiceResponse{}, invoiceerrors.ErrNothingToInvoice
	}

	invoiceID := uuid.New()
	items := make([]InvoiceItem, 0, len(hours))
	for _, h := range hours {
		var rate float64
		currency := "$"
		if pr, err := s.projectRepo.FindPayRate(ctx, h.UserID.String(), h.ProjectID.String()); err == nil {
			rate = pr.InvoiceRate
			if pr.Currency != "" {
				currency = pr.Currency
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, err
		}

		quantity := round2(float64(h.TotalDuration) / 3600.0)
		items = append(items, InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: invoiceID,
			ProjectID: h.ProjectID,
			Quantity:  quantity,
			Rate:      rate,
			Amount:    round2(quantity * rate),
			Currency:  currency,
		})
	}

	number, err := s.counterRepo.GetNextValue(ctx, companyID, counter.TypeInvoiceNumber)
	if err != nil {
		return InvoiceResponse{}, err
	}

	timesheetUUID := ts.ID
	inv := &Invoice{
		ID:            invoiceID,
		CompanyID:     companyUUID,
		ClientID:      ts.ClientID,
		TimesheetID:   &timesheetUUID,
		InvoiceNumber: number,
		Status:        StatusPending,
		IssueDate:     issueDate,
		DueDate:       dueDate,
		PONumber:      req.PONumber,
		Discount:      req.Discount,
		Shipping:      req.Shipping,
		TaxPercent:    req.TaxPercent,
		Notes:         req.Notes,
		Items:         items,
	}
	applyTotals(inv)

	if err := qInvoices.Create(ctx, inv); err != nil {
		s.logger.Error("create invoice from timesheet failed", zap.String("request_id", rid), zap.Error(err))
		return InvoiceResponse{}, err
	}

	claimed, err := qEntries.ClaimForInvoice(ctx, companyID, req.TimesheetID, invoiceID.String())
	if err != nil {
		return InvoiceResponse{}, err
	}
	if claimed == 0 {
		return InvoiceResponse{}, invoiceerrors.ErrEntriesAlreadyClaimed
	}

	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	return mapToResponse(*inv), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, req GetInvoicesFilterRequest) ([]InvoiceResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, Filter{
		ClientID: req.ClientID,
		Status:   req.Status,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]InvoiceResponse, len(rows))
	for i, inv := range rows {
		resp[i] = mapToResponse(inv)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*inv), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}
	if inv.Status != StatusPending {
		return InvoiceResponse{}, invoiceerrors.ErrInvoiceNotPending
	}

	if req.IssueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.IssueDate)
		if err != nil {
			return InvoiceResponse{}, invoiceerrors.ErrInvalidDate
		}
		inv.IssueDate = parsed
	}
	if req.DueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return InvoiceResponse{}, invoiceerrors.ErrInvalidDate
		}
		inv.DueDate = parsed
	}
	if req.PONumber != nil {
		inv.PONumber = req.PONumber
	}
	if req.Discount != nil {
		inv.Discount = *req.Discount
	}
	if req.Shipping != nil {
		inv.Shipping = *req.Shipping
	}
	if req.TaxPercent != nil {
		inv.TaxPercent = *req.TaxPercent
	}
	if req.Notes != nil {
		inv.Notes = req.Notes
	}
	if req.Items != nil {
		items, err := buildItems(inv.ID, req.Items)
		if err != nil {
			return InvoiceResponse{}, err
		}
		inv.Items = items
	}
	applyTotals(inv)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if req.Items != nil {
		if err := qtx.ReplaceItems(ctx, inv.ID.String(), inv.Items); err != nil {
			return InvoiceResponse{}, err
		}
	}
	if err := qtx.Update(ctx, inv); err != nil {
		return InvoiceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	return mapToResponse(*inv), nil
}

func (s *service) UpdateStatus(ctx context.Context, companyID, id string, req UpdateInvoiceStatusRequest) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}
	switch req.Status {
	case StatusPending, StatusSent, StatusReceived:
	default:
		return InvoiceResponse{}, invoiceerrors.ErrInvalidStatus
	}

	inv, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return InvoiceResponse{}, mapRepositoryError(err)
	}

	if err := s.repo.UpdateStatus(ctx, companyID, id, req.Status); err != nil {
		return InvoiceResponse{}, err
	}

	inv.Status = req.Status
	return mapToResponse(*inv), nil
}

// Delete removes a pending invoice and releases the entries it had claimed so
// they can be invoiced again.
func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if inv.Status != StatusPending {
		return invoiceerrors.ErrInvoiceNotPending
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qInvoices := s.repo.WithTx(tx)
	qEntries := s.entryRepo.WithTx(tx)

	if err := qEntries.ReleaseInvoiceClaim(ctx, companyID, id); err != nil {
		return err
	}
	if err := qInvoices.Delete(ctx, companyID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func parseDates(issue, due string) (time.Time, time.Time, error) {
	issueDate, err := time.Parse(dateLayout, issue)
	if err != nil {
		return time.Time{}, time.Time{}, invoiceerrors.ErrInvalidDate
	}
	dueDate, err := time.Parse(dateLayout, due)
	if err != nil {
		return time.Time{}, time.Time{}, invoiceerrors.ErrInvalidDate
	}
	return issueDate, dueDate, nil
}

func buildItems(invoiceID uuid.UUID, reqs []InvoiceItemRequest) ([]InvoiceItem, error) {
	items := make([]InvoiceItem, 0, len(reqs))
	for _, ir := range reqs {
		projectUUID, err := uuid.Parse(ir.ProjectID)
		if err != nil {
			return nil, invoiceerrors.ErrInvalidProjectID
		}
		currency := ir.Currency
		if currency == "" {
			currency = "$"
		}
		items = append(items, InvoiceItem{
			ID:          uuid.New(),
			InvoiceID:   invoiceID,
			ProjectID:   projectUUID,
			Description: ir.Description,
			Quantity:    ir.Quantity,
			Rate:        ir.Rate,
			Amount:      round2(ir.Quantity * ir.Rate),
			Currency:    currency,
		})
	}
	return items, nil
}

// applyTotals derives every money field from the line items:
// subtotal = Σ amount, tax_amount = subtotal × tax_percent / 100,
// total = subtotal − subtotal × discount / 100 + shipping + tax_amount,
// all rounded to 2 decimals.
func applyTotals(inv *Invoice) {
	var totalQuantity, subtotal float64
	for _, item := range inv.Items {
		totalQuantity += item.Quantity
		subtotal += item.Amount
	}
	subtotal = round2(subtotal)

	inv.TotalQuantity = round2(totalQuantity)
	inv.Subtotal = subtotal
	inv.TaxAmount = round2(subtotal * inv.TaxPercent / 100)
	inv.TotalAmount = round2(subtotal - subtotal*inv.Discount/100 + inv.Shipping + inv.TaxAmount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invoiceerrors.ErrInvoiceNotFound
	}
	return err
}

func mapToResponse(inv Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		CompanyID:     inv.CompanyID.String(),
		ClientID:      inv.ClientID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		PONumber:      inv.PONumber,
		TotalQuantity: inv.TotalQuantity,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		Shipping:      inv.Shipping,
		TaxPercent:    inv.TaxPercent,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Notes:         inv.Notes,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
	}
	if inv.TimesheetID != nil {
		v := inv.TimesheetID.String()
		resp.TimesheetID = &v
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          item.ID.String(),
			ProjectID:   item.ProjectID.String(),
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
			Currency:    item.Currency,
		})
	}
	return resp
}
