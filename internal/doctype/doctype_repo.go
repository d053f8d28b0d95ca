package doctype

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=doctype_repo.go -destination=mock/doctype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, docType *DocumentType) error
	CreateBatch(ctx context.Context, docTypes []DocumentType) error
	FindAll(ctx context.Context) ([]DocumentType, error)
	FindByID(ctx context.Context, id string) (*DocumentType, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, docType *DocumentType) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, docType *DocumentType) error {
	return r.db.WithContext(ctx).Create(docType).Error
}

func (r *repository) CreateBatch(ctx context.Context, docTypes []DocumentType) error {
	return r.db.WithContext(ctx).Create(&docTypes).Error
}

// FindAll mengembalikan seluruh katalog terurut nama; urutan ini yang dipakai
// untuk render tree dan menu pilihan.
func (r *repository) FindAll(ctx context.Context) ([]DocumentType, error) {
	var docTypes []DocumentType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&docTypes).Error
	return docTypes, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*DocumentType, error) {
	var docType DocumentType
	err := r.db.WithContext(ctx).First(&docType, "id = ?", id).Error
	return &docType, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DocumentType{}).Count(&count).Error
	return count, err
}

func (r *repository) Update(ctx context.Context, docType *DocumentType) error {
	return r.db.WithContext(ctx).Save(docType).Error
}

func (r *repository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&DocumentType{}, "id IN ?", ids).Error
}
