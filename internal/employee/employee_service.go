package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/monaguib-hub/DocTrack/internal/document"
	employeeerrors "github.com/monaguib-hub/DocTrack/internal/employee/errors"
	"github.com/monaguib-hub/DocTrack/internal/events"
	"github.com/monaguib-hub/DocTrack/internal/expiry"
	"github.com/monaguib-hub/DocTrack/internal/messaging/kafka"
	"github.com/monaguib-hub/DocTrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EmployeeSnapshotKey menyimpan salinan terakhir daftar employee yang
// berhasil dibaca. Dipakai hanya sebagai fallback saat database bermasalah;
// tidak pernah jadi target tulis.
const EmployeeSnapshotKey = "employees:snapshot"

const snapshotTTL = 24 * time.Hour

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, bool, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (StatsResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	docRepo document.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(db *sql.DB, repo Repository, docRepo document.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, docRepo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	docRepo document.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		docRepo: docRepo,
		outbox:  outboxRepo,
		rdb:     rdb,
		logger:  l,
		now:     time.Now,
	}
}

// NewServiceWithClock dipakai di test supaya klasifikasi expiry deterministik.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	docRepo document.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	svc := NewServiceWithOutbox(db, repo, docRepo, outboxRepo, rdb, logger...).(*service)
	svc.now = now
	return svc
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid), // Propagasi ke logs
		zap.String("name", req.Name),
	)

	empl := &Employee{
		ID:       uuid.New(),
		Name:     req.Name,
		Position: req.Position,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.EmployeeCreatedEvent{
			EventType:  "employee_created",
			RequestID:  rid, // Propagasi ke async events
			EmployeeID: empl.ID.String(),
			Name:       empl.Name,
			OccurredAt: s.now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl, s.now()), nil
}

// GetAll mengembalikan (responses, stale, error). stale true berarti data
// berasal dari snapshot Redis karena database sedang tidak bisa dibaca.
func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, bool, error) {
	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all employees failed, trying snapshot", zap.Error(err))
		return s.readSnapshot(ctx)
	}

	resp := mapToListResponse(empls, s.now())
	s.writeSnapshot(ctx, empls)
	return resp, false, nil
}

// readSnapshot tidak pernah mengembalikan error: tanpa snapshot pun daftar
// kosong tetap disajikan (stale) supaya halaman tidak mati saat DB bermasalah.
func (s *service) readSnapshot(ctx context.Context) ([]EmployeeResponse, bool, error) {
	if s.rdb == nil {
		return []EmployeeResponse{}, true, nil
	}

	cached, err := s.rdb.Get(ctx, EmployeeSnapshotKey).Result()
	if err != nil {
		s.logger.Error("employee snapshot unavailable", zap.Error(err))
		return []EmployeeResponse{}, true, nil
	}

	var empls []Employee
	if err := json.Unmarshal([]byte(cached), &empls); err != nil {
		s.logger.Error("employee snapshot corrupt", zap.Error(err))
		return []EmployeeResponse{}, true, nil
	}

	s.logger.Warn("serving employees from snapshot",
		zap.Int("count", len(empls)),
	)
	// Status tetap dihitung dengan jam sekarang, bukan jam saat snapshot
	// ditulis, supaya klasifikasi tidak ikut basi.
	return mapToListResponse(empls, s.now()), true, nil
}

func (s *service) writeSnapshot(ctx context.Context, empls []Employee) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(empls)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, EmployeeSnapshotKey, payload, snapshotTTL).Err(); err != nil {
		s.logger.Warn("write employee snapshot failed", zap.Error(err))
	}
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl, s.now()), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.Name = req.Name
	empl.Position = req.Position

	if err := s.repo.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	return mapToResponse(*empl, s.now()), nil
}

// Delete menghapus employee beserta seluruh dokumennya dalam satu transaksi.
func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.docRepo.WithTx(tx).DeleteByEmployee(ctx, id); err != nil {
		s.logger.Error("delete employee documents failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		s.logger.Error("delete employee persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	return nil
}

// Stats menghitung angka dashboard. warning/critical dihitung per dokumen
// dengan klasifikasi yang sama dengan list.
func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	totalEmployees, err := s.repo.CountAll(ctx)
	if err != nil {
		return StatsResponse{}, mapRepositoryError(err)
	}

	totalDocuments, err := s.docRepo.CountAll(ctx)
	if err != nil {
		return StatsResponse{}, mapRepositoryError(err)
	}

	empls, err := s.repo.FindAll(ctx)
	if err != nil {
		return StatsResponse{}, mapRepositoryError(err)
	}

	now := s.now()
	stats := StatsResponse{
		TotalEmployees: totalEmployees,
		TotalDocuments: totalDocuments,
	}
	for _, e := range empls {
		for _, d := range e.Documents {
			switch expiry.Classify(d.ExpiryDate, now) {
			case expiry.StatusWarning:
				stats.WarningCount++
			case expiry.StatusCritical:
				stats.CriticalCount++
			}
		}
	}

	return stats, nil
}
