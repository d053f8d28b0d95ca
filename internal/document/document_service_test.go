package document_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/monaguib-hub/DocTrack/internal/document"
	documenterrors "github.com/monaguib-hub/DocTrack/internal/document/errors"
	"github.com/monaguib-hub/DocTrack/internal/events"
	"github.com/monaguib-hub/DocTrack/internal/expiry"
	"github.com/monaguib-hub/DocTrack/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDocumentRepo struct {
	docs      map[string]document.Document
	employees map[string]bool
}

func newFakeDocumentRepo(employeeIDs ...string) *fakeDocumentRepo {
	r := &fakeDocumentRepo{
		docs:      map[string]document.Document{},
		employees: map[string]bool{},
	}
	for _, id := range employeeIDs {
		r.employees[id] = true
	}
	return r
}

func (r *fakeDocumentRepo) WithTx(tx *sql.Tx) document.Repository { return r }

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *document.Document) error {
	r.docs[doc.ID.String()] = *doc
	return nil
}

func (r *fakeDocumentRepo) FindByID(ctx context.Context, id string) (*document.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &doc, nil
}

func (r *fakeDocumentRepo) FindByEmployee(ctx context.Context, employeeID string) ([]document.Document, error) {
	var docs []document.Document
	for _, d := range r.docs {
		if d.EmployeeID.String() == employeeID {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (r *fakeDocumentRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.docs)), nil
}

func (r *fakeDocumentRepo) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	return r.employees[employeeID], nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *document.Document) error {
	r.docs[doc.ID.String()] = *doc
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) DeleteByEmployee(ctx context.Context, employeeID string) error {
	for id, d := range r.docs {
		if d.EmployeeID.String() == employeeID {
			delete(r.docs, id)
		}
	}
	return nil
}

type fakeUploader struct {
	uploads map[string][]byte
	fail    error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: map[string][]byte{}}
}

func (u *fakeUploader) Upload(ctx context.Context, content []byte, path string) (string, error) {
	if u.fail != nil {
		return "", u.fail
	}
	u.uploads[path] = content
	return "https://files.example.com/" + path, nil
}

func (u *fakeUploader) Delete(ctx context.Context, path string) error {
	delete(u.uploads, path)
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (o *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return o }

func (o *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	o.created = append(o.created, event)
	return nil
}

func (o *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return o.created, nil
}

func (o *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (o *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

// 15 Juni 2026 tengah hari, jam tetap supaya klasifikasi deterministik
var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type documentDeps struct {
	svc      document.Service
	repo     *fakeDocumentRepo
	uploader *fakeUploader
	outbox   *fakeOutbox
	sqlMock  sqlmock.Sqlmock
	close    func()
}

func setupDocumentService(t *testing.T, employeeIDs ...string) *documentDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := newFakeDocumentRepo(employeeIDs...)
	uploader := newFakeUploader()
	outbox := &fakeOutbox{}
	svc := document.NewServiceWithClock(db, repo, outbox, uploader, fixedClock)

	return &documentDeps{
		svc:      svc,
		repo:     repo,
		uploader: uploader,
		outbox:   outbox,
		sqlMock:  sqlMock,
		close:    func() { db.Close() },
	}
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestDocumentService_Add(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("permanent document is always safe", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		expectTx(deps.sqlMock, true)

		resp, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name: "Employment Contract",
		}, nil, "")

		assert.NoError(t, err)
		assert.Equal(t, expiry.StatusSafe, resp.Status)
		assert.Empty(t, resp.ExpiryDate)
	})

	t.Run("expiring in 20 days is critical", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		expectTx(deps.sqlMock, true)

		expiryDate := testNow.AddDate(0, 0, 20).Format("2006-01-02")
		resp, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name:       "Medical Certificate",
			ExpiryDate: expiryDate,
		}, nil, "")

		assert.NoError(t, err)
		assert.Equal(t, expiry.StatusCritical, resp.Status)
	})

	t.Run("expiring in 75 days is warning", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		expectTx(deps.sqlMock, true)

		expiryDate := testNow.AddDate(0, 0, 75).Format("2006-01-02")
		resp, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name:       "Port Pass",
			ExpiryDate: expiryDate,
		}, nil, "")

		assert.NoError(t, err)
		assert.Equal(t, expiry.StatusWarning, resp.Status)
	})

	t.Run("invalid expiry format rejected", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()

		_, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name:       "Port Pass",
			ExpiryDate: "15-06-2026",
		}, nil, "")

		assert.ErrorIs(t, err, documenterrors.ErrInvalidExpiryDate)
	})

	t.Run("unknown employee rejected", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()

		_, err := deps.svc.Add(ctx, uuid.New().String(), document.AddDocumentRequest{
			Name: "Passport",
		}, nil, "")

		assert.ErrorIs(t, err, documenterrors.ErrOwnerNotFound)
	})

	t.Run("attachment uploaded before commit", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		expectTx(deps.sqlMock, true)

		content := []byte("%PDF-1.7 dummy")
		resp, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name: "Passport",
		}, content, "passport.pdf")

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.FileURL, "https://files.example.com/documents/"))
		assert.True(t, strings.HasSuffix(resp.FileURL, "-passport.pdf"))
		assert.Len(t, deps.uploader.uploads, 1)
	})

	t.Run("upload failure aborts create", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		deps.uploader.fail = assert.AnError

		_, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name: "Passport",
		}, []byte("x"), "passport.pdf")

		assert.ErrorIs(t, err, documenterrors.ErrAttachmentUploadFailed)
		assert.Empty(t, deps.repo.docs)
	})

	t.Run("queues document_added outbox event in same tx", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()
		expectTx(deps.sqlMock, true)

		resp, err := deps.svc.Add(ctx, employeeID, document.AddDocumentRequest{
			Name: "Seaman Book",
		}, nil, "")

		assert.NoError(t, err)
		assert.Len(t, deps.outbox.created, 1)

		evt := deps.outbox.created[0]
		assert.Equal(t, events.DocumentLifecycleTopic, evt.Topic)
		assert.Equal(t, events.DocumentAdded, evt.EventType)
		assert.Equal(t, resp.ID, evt.AggregateID)

		var payload events.DocumentLifecycleEvent
		assert.NoError(t, json.Unmarshal(evt.Payload, &payload))
		assert.Equal(t, "Seaman Book", payload.Name)
		assert.Equal(t, employeeID, payload.EmployeeID)
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("changes expiry and recomputes status", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()

		docID := uuid.New()
		old := testNow.AddDate(0, 0, 20)
		deps.repo.docs[docID.String()] = document.Document{
			ID:         docID,
			EmployeeID: uuid.MustParse(employeeID),
			Name:       "Port Pass",
			ExpiryDate: &old,
		}

		expectTx(deps.sqlMock, true)
		renewed := testNow.AddDate(1, 0, 0).Format("2006-01-02")
		resp, err := deps.svc.Update(ctx, docID.String(), document.UpdateDocumentRequest{
			Name:       "Port Pass",
			ExpiryDate: renewed,
		}, nil, "")

		assert.NoError(t, err)
		assert.Equal(t, expiry.StatusSafe, resp.Status)
		assert.Equal(t, events.DocumentUpdated, deps.outbox.created[0].EventType)
	})

	t.Run("clearing expiry makes document permanent", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()

		docID := uuid.New()
		old := testNow.AddDate(0, 0, 10)
		deps.repo.docs[docID.String()] = document.Document{
			ID:         docID,
			EmployeeID: uuid.MustParse(employeeID),
			Name:       "ID Card",
			ExpiryDate: &old,
		}

		expectTx(deps.sqlMock, true)
		resp, err := deps.svc.Update(ctx, docID.String(), document.UpdateDocumentRequest{
			Name: "ID Card",
		}, nil, "")

		assert.NoError(t, err)
		assert.Equal(t, expiry.StatusSafe, resp.Status)
		assert.Empty(t, resp.ExpiryDate)
	})

	t.Run("unknown document", func(t *testing.T) {
		deps := setupDocumentService(t, employeeID)
		defer deps.close()

		_, err := deps.svc.Update(ctx, uuid.New().String(), document.UpdateDocumentRequest{
			Name: "ID Card",
		}, nil, "")

		assert.ErrorIs(t, err, documenterrors.ErrDocumentNotFound)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	deps := setupDocumentService(t, employeeID)
	defer deps.close()

	docID := uuid.New()
	deps.repo.docs[docID.String()] = document.Document{
		ID:         docID,
		EmployeeID: uuid.MustParse(employeeID),
		Name:       "Passport",
	}

	expectTx(deps.sqlMock, true)
	err := deps.svc.Delete(ctx, docID.String())

	assert.NoError(t, err)
	assert.Empty(t, deps.repo.docs)
	assert.Equal(t, events.DocumentDeleted, deps.outbox.created[0].EventType)
}

func TestDocumentService_GetByEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	deps := setupDocumentService(t, employeeID)
	defer deps.close()

	soon := testNow.AddDate(0, 0, 20)
	later := testNow.AddDate(0, 0, 75)
	for _, d := range []document.Document{
		{ID: uuid.New(), EmployeeID: uuid.MustParse(employeeID), Name: "Medical Certificate", ExpiryDate: &soon},
		{ID: uuid.New(), EmployeeID: uuid.MustParse(employeeID), Name: "Port Pass", ExpiryDate: &later},
		{ID: uuid.New(), EmployeeID: uuid.MustParse(employeeID), Name: "Employment Contract"},
	} {
		deps.repo.docs[d.ID.String()] = d
	}

	resp, err := deps.svc.GetByEmployee(ctx, employeeID)

	assert.NoError(t, err)
	assert.Len(t, resp, 3)

	statuses := map[string]expiry.Status{}
	for _, d := range resp {
		statuses[d.Name] = d.Status
	}
	assert.Equal(t, expiry.StatusCritical, statuses["Medical Certificate"])
	assert.Equal(t, expiry.StatusWarning, statuses["Port Pass"])
	assert.Equal(t, expiry.StatusSafe, statuses["Employment Contract"])
}
