package doctype_test

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/monaguib-hub/DocTrack/internal/doctype"
	doctypeerrors "github.com/monaguib-hub/DocTrack/internal/doctype/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeDoctypeRepo menyimpan katalog di memori; cukup untuk menguji logika
// service tanpa database sungguhan.
type fakeDoctypeRepo struct {
	types map[string]doctype.DocumentType
	fail  error
}

func newFakeDoctypeRepo(seed ...doctype.DocumentType) *fakeDoctypeRepo {
	r := &fakeDoctypeRepo{types: map[string]doctype.DocumentType{}}
	for _, dt := range seed {
		r.types[dt.ID.String()] = dt
	}
	return r
}

func (r *fakeDoctypeRepo) WithTx(tx *sql.Tx) doctype.Repository { return r }

func (r *fakeDoctypeRepo) Create(ctx context.Context, dt *doctype.DocumentType) error {
	if r.fail != nil {
		return r.fail
	}
	r.types[dt.ID.String()] = *dt
	return nil
}

func (r *fakeDoctypeRepo) CreateBatch(ctx context.Context, docTypes []doctype.DocumentType) error {
	if r.fail != nil {
		return r.fail
	}
	for _, dt := range docTypes {
		r.types[dt.ID.String()] = dt
	}
	return nil
}

func (r *fakeDoctypeRepo) FindAll(ctx context.Context) ([]doctype.DocumentType, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	all := make([]doctype.DocumentType, 0, len(r.types))
	for _, dt := range r.types {
		all = append(all, dt)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (r *fakeDoctypeRepo) FindByID(ctx context.Context, id string) (*doctype.DocumentType, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	dt, ok := r.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &dt, nil
}

func (r *fakeDoctypeRepo) CountAll(ctx context.Context) (int64, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	return int64(len(r.types)), nil
}

func (r *fakeDoctypeRepo) Update(ctx context.Context, dt *doctype.DocumentType) error {
	if r.fail != nil {
		return r.fail
	}
	r.types[dt.ID.String()] = *dt
	return nil
}

func (r *fakeDoctypeRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if r.fail != nil {
		return r.fail
	}
	for _, id := range ids {
		delete(r.types, id)
	}
	return nil
}

func setupDoctypeService(t *testing.T, repo doctype.Repository) (doctype.Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	svc := doctype.NewService(db, repo, nil)
	return svc, sqlMock, func() { db.Close() }
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestDoctypeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("root requires category", func(t *testing.T) {
		svc, _, done := setupDoctypeService(t, newFakeDoctypeRepo())
		defer done()

		_, err := svc.Create(ctx, doctype.CreateDocumentTypeRequest{Name: "Passport"})

		assert.ErrorIs(t, err, doctypeerrors.ErrCategoryRequired)
	})

	t.Run("root with category", func(t *testing.T) {
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo())
		defer done()
		expectTx(sqlMock, true)

		resp, err := svc.Create(ctx, doctype.CreateDocumentTypeRequest{
			Name:     "Passport",
			Category: "Employee Documents",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Passport", resp.Name)
		assert.Equal(t, "Employee Documents", resp.Category)
		assert.Empty(t, resp.ParentID)
	})

	t.Run("child inherits category from root", func(t *testing.T) {
		root := doctype.DocumentType{ID: uuid.New(), Name: "Business License", Category: "Office Documents"}
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo(root))
		defer done()
		expectTx(sqlMock, true)

		parentID := root.ID.String()
		resp, err := svc.Create(ctx, doctype.CreateDocumentTypeRequest{
			Name:     "Branch License",
			ParentID: &parentID,
		})

		assert.NoError(t, err)
		assert.Equal(t, parentID, resp.ParentID)
		assert.Equal(t, "Office Documents", resp.Category)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		svc, _, done := setupDoctypeService(t, newFakeDoctypeRepo())
		defer done()

		parentID := uuid.New().String()
		_, err := svc.Create(ctx, doctype.CreateDocumentTypeRequest{
			Name:     "Branch License",
			ParentID: &parentID,
		})

		assert.ErrorIs(t, err, doctypeerrors.ErrParentNotFound)
	})
}

func TestDoctypeService_Update_Reparent(t *testing.T) {
	ctx := context.Background()

	newChain := func() (root, child, grandchild doctype.DocumentType) {
		root = doctype.DocumentType{ID: uuid.New(), Name: "Business License", Category: "Office Documents"}
		child = doctype.DocumentType{ID: uuid.New(), Name: "Branch License", ParentID: &root.ID}
		grandchild = doctype.DocumentType{ID: uuid.New(), Name: "Harbor Annex", ParentID: &child.ID}
		return
	}

	t.Run("rejects moving node under its own descendant", func(t *testing.T) {
		root, child, grandchild := newChain()
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo(root, child, grandchild))
		defer done()
		expectTx(sqlMock, false)

		target := grandchild.ID.String()
		_, err := svc.Update(ctx, root.ID.String(), doctype.UpdateDocumentTypeRequest{
			Name:     root.Name,
			ParentID: &target,
		})

		assert.ErrorIs(t, err, doctypeerrors.ErrCyclicParent)
	})

	t.Run("rejects node as its own parent", func(t *testing.T) {
		root, child, grandchild := newChain()
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo(root, child, grandchild))
		defer done()
		expectTx(sqlMock, false)

		self := child.ID.String()
		_, err := svc.Update(ctx, child.ID.String(), doctype.UpdateDocumentTypeRequest{
			Name:     child.Name,
			ParentID: &self,
		})

		assert.ErrorIs(t, err, doctypeerrors.ErrCyclicParent)
	})

	t.Run("detach materializes inherited category", func(t *testing.T) {
		root, child, grandchild := newChain()
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo(root, child, grandchild))
		defer done()
		expectTx(sqlMock, true)

		detach := ""
		resp, err := svc.Update(ctx, child.ID.String(), doctype.UpdateDocumentTypeRequest{
			Name:     child.Name,
			ParentID: &detach,
		})

		assert.NoError(t, err)
		assert.Empty(t, resp.ParentID)
		// Node yang dilepas jadi akar membawa kategori efektif lamanya
		assert.Equal(t, "Office Documents", resp.Category)
	})

	t.Run("move to another root changes inherited category", func(t *testing.T) {
		root, child, grandchild := newChain()
		ports := doctype.DocumentType{ID: uuid.New(), Name: "Gate Pass", Category: "Port Passes"}
		repo := newFakeDoctypeRepo(root, child, grandchild, ports)
		svc, sqlMock, done := setupDoctypeService(t, repo)
		defer done()
		expectTx(sqlMock, true)

		target := ports.ID.String()
		resp, err := svc.Update(ctx, child.ID.String(), doctype.UpdateDocumentTypeRequest{
			Name:     child.Name,
			ParentID: &target,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Port Passes", resp.Category)
	})
}

func TestDoctypeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades over whole subtree", func(t *testing.T) {
		root := doctype.DocumentType{ID: uuid.New(), Name: "Business License", Category: "Office Documents"}
		child := doctype.DocumentType{ID: uuid.New(), Name: "Branch License", ParentID: &root.ID}
		grandchild := doctype.DocumentType{ID: uuid.New(), Name: "Harbor Annex", ParentID: &child.ID}
		sibling := doctype.DocumentType{ID: uuid.New(), Name: "Gate Pass", Category: "Port Passes"}
		repo := newFakeDoctypeRepo(root, child, grandchild, sibling)
		svc, sqlMock, done := setupDoctypeService(t, repo)
		defer done()
		expectTx(sqlMock, true)

		deleted, err := svc.Delete(ctx, root.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, 3, deleted)
		// Tidak boleh ada baris yatim; sibling di kategori lain tetap ada
		assert.Len(t, repo.types, 1)
		_, exists := repo.types[sibling.ID.String()]
		assert.True(t, exists)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, sqlMock, done := setupDoctypeService(t, newFakeDoctypeRepo())
		defer done()
		expectTx(sqlMock, false)

		_, err := svc.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, doctypeerrors.ErrDocumentTypeNotFound)
	})
}

func TestDoctypeService_ImportTemplates(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds empty catalog", func(t *testing.T) {
		repo := newFakeDoctypeRepo()
		svc, sqlMock, done := setupDoctypeService(t, repo)
		defer done()
		expectTx(sqlMock, true)

		imported, err := svc.ImportTemplates(ctx, false)

		assert.NoError(t, err)
		assert.Equal(t, 35, imported)
		assert.Len(t, repo.types, 35)
	})

	t.Run("refuses non-empty catalog without force", func(t *testing.T) {
		existing := doctype.DocumentType{ID: uuid.New(), Name: "Passport", Category: "Employee Documents"}
		svc, _, done := setupDoctypeService(t, newFakeDoctypeRepo(existing))
		defer done()

		_, err := svc.ImportTemplates(ctx, false)

		assert.ErrorIs(t, err, doctypeerrors.ErrCatalogNotEmpty)
	})

	t.Run("force overrides guard", func(t *testing.T) {
		existing := doctype.DocumentType{ID: uuid.New(), Name: "Passport", Category: "Employee Documents"}
		repo := newFakeDoctypeRepo(existing)
		svc, sqlMock, done := setupDoctypeService(t, repo)
		defer done()
		expectTx(sqlMock, true)

		imported, err := svc.ImportTemplates(ctx, true)

		assert.NoError(t, err)
		assert.Equal(t, 35, imported)
		assert.Len(t, repo.types, 36)
	})
}

func TestDoctypeService_GetCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog falls back to defaults", func(t *testing.T) {
		svc, _, done := setupDoctypeService(t, newFakeDoctypeRepo())
		defer done()

		categories, err := svc.GetCategories(ctx)

		assert.NoError(t, err)
		assert.Equal(t, doctype.DefaultCategories(), categories)
	})

	t.Run("non-empty catalog yields distinct root categories", func(t *testing.T) {
		a := doctype.DocumentType{ID: uuid.New(), Name: "Gate Pass", Category: "Port Passes"}
		b := doctype.DocumentType{ID: uuid.New(), Name: "Passport", Category: "Employee Documents"}
		c := doctype.DocumentType{ID: uuid.New(), Name: "Seaman Book", Category: "Employee Documents"}
		svc, _, done := setupDoctypeService(t, newFakeDoctypeRepo(a, b, c))
		defer done()

		categories, err := svc.GetCategories(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []string{"Employee Documents", "Port Passes"}, categories)
	})
}

func TestDoctypeService_GetOptions_Cache(t *testing.T) {
	ctx := context.Background()

	rdbClient, redisMock := redismock.NewClientMock()
	root := doctype.DocumentType{ID: uuid.New(), Name: "Passport", Category: "Employee Documents"}
	repo := newFakeDoctypeRepo(root)

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := doctype.NewService(db, repo, rdbClient)

	redisMock.ExpectGet(doctype.DocTypeOptionsKey).RedisNil()
	redisMock.Regexp().ExpectSet(doctype.DocTypeOptionsKey, `.*`, time.Hour).SetVal("OK")

	options, err := svc.GetOptions(ctx)
	assert.NoError(t, err)
	assert.Len(t, options, 1)
	assert.Equal(t, "Passport", options[0].Name)

	// Repo mati setelahnya; error hanya sampai ke caller bila cache juga miss
	repo.fail = errors.New("db down")
	redisMock.ExpectGet(doctype.DocTypeOptionsKey).RedisNil()

	_, err = svc.GetOptions(ctx)
	assert.Error(t, err)
}
