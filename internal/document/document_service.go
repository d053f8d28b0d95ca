package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	documenterrors "github.com/monaguib-hub/DocTrack/internal/document/errors"
	"github.com/monaguib-hub/DocTrack/internal/events"
	"github.com/monaguib-hub/DocTrack/internal/messaging/kafka"
	"github.com/monaguib-hub/DocTrack/internal/shared/contextutil"
	"github.com/monaguib-hub/DocTrack/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=document_service.go -destination=mock/document_service_mock.go -package=mock
type Service interface {
	Add(ctx context.Context, employeeID string, req AddDocumentRequest, file []byte, filename string) (DocumentResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]DocumentResponse, error)
	GetByID(ctx context.Context, id string) (DocumentResponse, error)
	Update(ctx context.Context, id string, req UpdateDocumentRequest, file []byte, filename string) (DocumentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	uploader storage.Uploader
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(db *sql.DB, repo Repository, uploader storage.Uploader, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, uploader, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	uploader storage.Uploader,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("document.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		uploader: uploader,
		logger:   l,
		now:      time.Now,
	}
}

// NewServiceWithClock dipakai di test supaya klasifikasi expiry deterministik.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	uploader storage.Uploader,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	svc := NewServiceWithOutbox(db, repo, outboxRepo, uploader, logger...).(*service)
	svc.now = now
	return svc
}

func parseExpiryDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil // permanen, tidak pernah expired
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, documenterrors.ErrInvalidExpiryDate
	}
	return &t, nil
}

func (s *service) Add(
	ctx context.Context,
	employeeID string,
	req AddDocumentRequest,
	file []byte,
	filename string,
) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("add document requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("name", req.Name),
	)

	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return DocumentResponse{}, documenterrors.ErrOwnerNotFound
	}

	expiryDate, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		s.logger.Warn("add document invalid expiry_date",
			zap.String("expiry_date", req.ExpiryDate),
		)
		return DocumentResponse{}, err
	}

	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		s.logger.Error("add document owner lookup failed", zap.Error(err))
		return DocumentResponse{}, mapRepositoryError(err)
	}
	if !exists {
		return DocumentResponse{}, documenterrors.ErrOwnerNotFound
	}

	doc := &Document{
		ID:         uuid.New(),
		EmployeeID: empID,
		Name:       req.Name,
		ExpiryDate: expiryDate,
	}

	if len(file) > 0 && s.uploader != nil {
		path := fmt.Sprintf("documents/%s-%s", doc.ID.String(), filepath.Base(filename))
		url, err := s.uploader.Upload(ctx, file, path)
		if err != nil {
			s.logger.Error("add document upload failed",
				zap.String("request_id", rid),
				zap.Error(err),
			)
			return DocumentResponse{}, documenterrors.ErrAttachmentUploadFailed
		}
		doc.FileURL = url
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add document begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return DocumentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, doc); err != nil {
		s.logger.Error("add document persist failed", zap.Error(err))
		return DocumentResponse{}, mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.DocumentAdded, doc); err != nil {
		return DocumentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return DocumentResponse{}, err
	}

	s.logger.Info("add document success",
		zap.String("request_id", rid),
		zap.String("document_id", doc.ID.String()),
		zap.String("employee_id", employeeID),
	)

	return MapToResponse(*doc, s.now()), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]DocumentResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, documenterrors.ErrOwnerNotFound
	}

	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !exists {
		return nil, documenterrors.ErrOwnerNotFound
	}

	docs, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get documents by employee failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return MapToListResponse(docs, s.now()), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DocumentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DocumentResponse{}, documenterrors.ErrInvalidDocumentID
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DocumentResponse{}, mapRepositoryError(err)
	}

	return MapToResponse(*doc, s.now()), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateDocumentRequest,
	file []byte,
	filename string,
) (DocumentResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return DocumentResponse{}, documenterrors.ErrInvalidDocumentID
	}

	expiryDate, err := parseExpiryDate(req.ExpiryDate)
	if err != nil {
		return DocumentResponse{}, err
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DocumentResponse{}, mapRepositoryError(err)
	}

	doc.Name = req.Name
	doc.ExpiryDate = expiryDate

	if len(file) > 0 && s.uploader != nil {
		oldPath := doc.FileURL
		path := fmt.Sprintf("documents/%s-%s", doc.ID.String(), filepath.Base(filename))
		url, err := s.uploader.Upload(ctx, file, path)
		if err != nil {
			s.logger.Error("update document upload failed",
				zap.String("request_id", rid),
				zap.Error(err),
			)
			return DocumentResponse{}, documenterrors.ErrAttachmentUploadFailed
		}
		doc.FileURL = url
		_ = oldPath // lampiran lama dibiarkan, belum ada kebijakan retensi
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DocumentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, doc); err != nil {
		s.logger.Error("update document persist failed", zap.Error(err))
		return DocumentResponse{}, mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.DocumentUpdated, doc); err != nil {
		return DocumentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DocumentResponse{}, err
	}

	s.logger.Info("update document success",
		zap.String("request_id", rid),
		zap.String("document_id", doc.ID.String()),
	)

	return MapToResponse(*doc, s.now()), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return documenterrors.ErrInvalidDocumentID
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete document persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, events.DocumentDeleted, doc); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete document success",
		zap.String("request_id", rid),
		zap.String("document_id", id),
	)

	return nil
}

func (s *service) queueLifecycleEvent(
	ctx context.Context,
	tx *sql.Tx,
	rid, eventType string,
	doc *Document,
) error {
	if s.outbox == nil {
		return nil
	}

	event := events.DocumentLifecycleEvent{
		EventType:  eventType,
		RequestID:  rid,
		DocumentID: doc.ID.String(),
		EmployeeID: doc.EmployeeID.String(),
		Name:       doc.Name,
		ExpiryDate: doc.ExpiryDate,
		OccurredAt: s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "document",
		AggregateID:   doc.ID.String(),
		EventType:     eventType,
		Topic:         events.DocumentLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("document outbox persist failed",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}
