package doctype

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	doctypeerrors "github.com/monaguib-hub/DocTrack/internal/doctype/errors"
	"github.com/monaguib-hub/DocTrack/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DocTypeOptionsKey = "doctypes:options"

//go:generate mockgen -source=doctype_service.go -destination=mock/doctype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDocumentTypeRequest) (DocumentTypeResponse, error)
	GetTree(ctx context.Context) ([]CategoryGroupResponse, error)
	GetCategories(ctx context.Context) ([]string, error)
	GetOptions(ctx context.Context) ([]DocumentTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateDocumentTypeRequest) (DocumentTypeResponse, error)
	Delete(ctx context.Context, id string) (int, error)
	ImportTemplates(ctx context.Context, force bool) (int, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("doctype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("doctype.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, req CreateDocumentTypeRequest) (DocumentTypeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create document type requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	docType := &DocumentType{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if req.ParentID != nil && *req.ParentID != "" {
		parentID, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return DocumentTypeResponse{}, doctypeerrors.ErrInvalidDocumentTypeID
		}
		if _, err := s.repo.FindByID(ctx, parentID.String()); err != nil {
			s.logger.Warn("create document type parent not found",
				zap.String("parent_id", parentID.String()),
			)
			return DocumentTypeResponse{}, doctypeerrors.ErrParentNotFound
		}
		// Anak tidak menyimpan kategori sendiri; kategori efektif selalu
		// diturunkan dari akar saat dibaca.
		docType.ParentID = &parentID
	} else {
		if req.Category == "" {
			return DocumentTypeResponse{}, doctypeerrors.ErrCategoryRequired
		}
		docType.Category = req.Category
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create document type begin tx failed", zap.Error(err))
		return DocumentTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, docType); err != nil {
		s.logger.Error("create document type persist failed", zap.Error(err))
		return DocumentTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create document type commit failed", zap.Error(err))
		return DocumentTypeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	category, err := s.resolveCategory(ctx, docType)
	if err != nil {
		return DocumentTypeResponse{}, err
	}

	s.logger.Info("create document type success",
		zap.String("request_id", rid),
		zap.String("doctype_id", docType.ID.String()),
	)

	return mapToResponse(*docType, category), nil
}

func (s *service) GetTree(ctx context.Context) ([]CategoryGroupResponse, error) {
	docTypes, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get document type tree failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return BuildTree(docTypes), nil
}

func (s *service) GetCategories(ctx context.Context) ([]string, error) {
	docTypes, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get categories failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	categories := DistinctCategories(docTypes)
	if len(categories) == 0 {
		// Katalog kosong: tawarkan kategori bawaan agar form tetap berguna
		// dan UI bisa menampilkan affordance "import templates".
		return DefaultCategories(), nil
	}
	return categories, nil
}

func (s *service) GetOptions(ctx context.Context) ([]DocumentTypeResponse, error) {
	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, DocTypeOptionsKey).Result(); err == nil {
			var resp []DocumentTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight agar traffic tinggi saat form dibuka tidak membanjiri DB
	v, err, _ := s.sf.Do(DocTypeOptionsKey, func() (interface{}, error) {
		docTypes, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := FlattenWithCategories(docTypes)

		// 3. Simpan ke Redis (TTL 1 jam cukup karena data master)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, DocTypeOptionsKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]DocumentTypeResponse), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDocumentTypeRequest) (DocumentTypeResponse, error) {
	s.logger.Debug("update document type requested", zap.String("doctype_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update document type begin tx failed", zap.Error(err))
		return DocumentTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	docType, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update document type fetch existing failed", zap.Error(err))
		return DocumentTypeResponse{}, mapRepositoryError(err)
	}

	docType.Name = req.Name

	if req.ParentID != nil {
		if err := s.reparent(ctx, qtx, docType, *req.ParentID); err != nil {
			return DocumentTypeResponse{}, err
		}
	}

	if err := qtx.Update(ctx, docType); err != nil {
		s.logger.Error("update document type persist failed", zap.Error(err))
		return DocumentTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update document type commit failed", zap.Error(err))
		return DocumentTypeResponse{}, err
	}

	s.invalidateOptionsCache(ctx)

	category, err := s.resolveCategory(ctx, docType)
	if err != nil {
		return DocumentTypeResponse{}, err
	}

	s.logger.Info("update document type success", zap.String("doctype_id", id))

	return mapToResponse(*docType, category), nil
}

// reparent memindahkan node ke parent baru (atau menjadikannya akar bila
// parentID kosong) sambil menjaga invariant: graph parent harus tetap asiklik.
func (s *service) reparent(ctx context.Context, qtx Repository, docType *DocumentType, parentID string) error {
	if parentID == "" {
		if docType.ParentID == nil {
			return nil
		}
		// Dilepas jadi akar: kategori efektif lama dimaterialisasi agar
		// node tidak kehilangan grupnya.
		category, err := s.resolveCategory(ctx, docType)
		if err != nil {
			return err
		}
		docType.ParentID = nil
		docType.Category = category
		return nil
	}

	newParentID, err := uuid.Parse(parentID)
	if err != nil {
		return doctypeerrors.ErrInvalidDocumentTypeID
	}

	all, err := qtx.FindAll(ctx)
	if err != nil {
		return mapRepositoryError(err)
	}

	subtree := CollectSubtree(all, docType.ID.String())
	for _, nodeID := range subtree {
		if nodeID == newParentID.String() {
			return doctypeerrors.ErrCyclicParent
		}
	}

	found := false
	for i := range all {
		if all[i].ID == newParentID {
			found = true
			break
		}
	}
	if !found {
		return doctypeerrors.ErrParentNotFound
	}

	docType.ParentID = &newParentID
	docType.Category = ""
	return nil
}

func (s *service) Delete(ctx context.Context, id string) (int, error) {
	s.logger.Debug("delete document type requested", zap.String("doctype_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete document type begin tx failed", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		s.logger.Error("delete document type fetch existing failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}

	all, err := qtx.FindAll(ctx)
	if err != nil {
		return 0, mapRepositoryError(err)
	}

	// Kontraknya cascading: seluruh subtree ikut terhapus, tidak boleh ada
	// baris yatim yang parent_id-nya menunjuk node terhapus.
	subtree := CollectSubtree(all, id)

	if err := qtx.DeleteByIDs(ctx, subtree); err != nil {
		s.logger.Error("delete document type subtree failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete document type commit failed", zap.Error(err))
		return 0, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("delete document type success",
		zap.String("doctype_id", id),
		zap.Int("deleted", len(subtree)),
	)

	return len(subtree), nil
}

func (s *service) ImportTemplates(ctx context.Context, force bool) (int, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("import templates requested",
		zap.String("request_id", rid),
		zap.Bool("force", force),
	)

	count, err := s.repo.CountAll(ctx)
	if err != nil {
		return 0, mapRepositoryError(err)
	}
	// Seed tidak idempotent; katalog non-kosong butuh konfirmasi eksplisit.
	if count > 0 && !force {
		return 0, doctypeerrors.ErrCatalogNotEmpty
	}

	entries := SeedEntries()
	docTypes := make([]DocumentType, len(entries))
	for i, entry := range entries {
		docTypes[i] = DocumentType{
			ID:       uuid.New(),
			Name:     entry.Name,
			Category: entry.Category,
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("import templates begin tx failed", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.CreateBatch(ctx, docTypes); err != nil {
		s.logger.Error("import templates persist failed", zap.Error(err))
		return 0, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("import templates commit failed", zap.Error(err))
		return 0, err
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("import templates success",
		zap.String("request_id", rid),
		zap.Int("imported", len(docTypes)),
	)

	return len(docTypes), nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DocTypeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate doctype options cache",
			zap.Error(err),
			zap.String("key", DocTypeOptionsKey),
		)
	}
}

// resolveCategory menelusuri rantai parent sampai akar untuk mendapatkan
// kategori efektif sebuah node.
func (s *service) resolveCategory(ctx context.Context, docType *DocumentType) (string, error) {
	current := docType
	visited := map[string]bool{}

	for current.ParentID != nil {
		id := current.ID.String()
		if visited[id] {
			// Data korup (siklus); berhenti daripada loop tanpa akhir.
			return current.Category, nil
		}
		visited[id] = true

		parent, err := s.repo.FindByID(ctx, current.ParentID.String())
		if err != nil {
			return "", mapRepositoryError(err)
		}
		current = parent
	}

	return current.Category, nil
}

func mapToResponse(docType DocumentType, category string) DocumentTypeResponse {
	resp := DocumentTypeResponse{
		ID:       docType.ID.String(),
		Name:     docType.Name,
		Category: category,
	}
	if docType.ParentID != nil {
		resp.ParentID = docType.ParentID.String()
	}
	return resp
}
