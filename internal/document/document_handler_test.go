package document_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/monaguib-hub/DocTrack/internal/document"
	documenterrors "github.com/monaguib-hub/DocTrack/internal/document/errors"
	"github.com/monaguib-hub/DocTrack/internal/expiry"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeDocumentService struct {
	AddFn           func(ctx context.Context, employeeID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error)
	GetByEmployeeFn func(ctx context.Context, employeeID string) ([]document.DocumentResponse, error)
	GetByIDFn       func(ctx context.Context, id string) (document.DocumentResponse, error)
	UpdateFn        func(ctx context.Context, id string, req document.UpdateDocumentRequest, file []byte, filename string) (document.DocumentResponse, error)
	DeleteFn        func(ctx context.Context, id string) error
}

func (f *fakeDocumentService) Add(ctx context.Context, employeeID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
	return f.AddFn(ctx, employeeID, req, file, filename)
}
func (f *fakeDocumentService) GetByEmployee(ctx context.Context, employeeID string) ([]document.DocumentResponse, error) {
	return f.GetByEmployeeFn(ctx, employeeID)
}
func (f *fakeDocumentService) GetByID(ctx context.Context, id string) (document.DocumentResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeDocumentService) Update(ctx context.Context, id string, req document.UpdateDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
	return f.UpdateFn(ctx, id, req, file, filename)
}
func (f *fakeDocumentService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		assert.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		assert.NoError(t, err)
		_, err = fw.Write(content)
		assert.NoError(t, err)
	}
	assert.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestDocumentHandler_Add(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("multipart with attachment", func(t *testing.T) {
		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				assert.Equal(t, employeeID, empID)
				assert.Equal(t, "Passport", req.Name)
				assert.Equal(t, "2027-01-31", req.ExpiryDate)
				assert.Equal(t, []byte("fake-pdf"), file)
				assert.Equal(t, "passport.pdf", filename)
				return document.DocumentResponse{
					ID:     uuid.New().String(),
					Name:   req.Name,
					Status: expiry.StatusSafe,
				}, nil
			},
		}
		h := document.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees/:id/documents", h.Add)

		body, contentType := multipartBody(t, map[string]string{
			"name":        "Passport",
			"expiry_date": "2027-01-31",
		}, "file", "passport.pdf", []byte("fake-pdf"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("releases idempotency lock and caches response", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		defer rdb.Close()

		cacheKey := "idemp:/employees/:id/documents:user-1:key-1"
		lockKey := cacheKey + ":lock"
		redisMock.Regexp().ExpectSet(cacheKey, `.*`, 24*time.Hour).SetVal("OK")
		redisMock.ExpectDel(lockKey).SetVal(1)

		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				return document.DocumentResponse{ID: uuid.New().String(), Name: req.Name, Status: expiry.StatusSafe}, nil
			},
		}
		h := document.NewHandlerWithRedis(svc, rdb)
		r := setupRouter()
		r.POST("/employees/:id/documents", func(c *gin.Context) {
			c.Set("idempotency_cache_key", cacheKey)
			c.Set("idempotency_lock_key", lockKey)
			c.Next()
		}, h.Add)

		body, contentType := multipartBody(t, map[string]string{"name": "Passport"}, "", "", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("releases lock without caching when service fails", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		defer rdb.Close()

		cacheKey := "idemp:/employees/:id/documents:user-1:key-2"
		lockKey := cacheKey + ":lock"
		// Hanya lock yang dilepas; response gagal tidak boleh masuk cache.
		redisMock.ExpectDel(lockKey).SetVal(1)

		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				return document.DocumentResponse{}, documenterrors.ErrOwnerNotFound
			},
		}
		h := document.NewHandlerWithRedis(svc, rdb)
		r := setupRouter()
		r.POST("/employees/:id/documents", func(c *gin.Context) {
			c.Set("idempotency_cache_key", cacheKey)
			c.Set("idempotency_lock_key", lockKey)
			c.Next()
		}, h.Add)

		body, contentType := multipartBody(t, map[string]string{"name": "Passport"}, "", "", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("multipart without attachment", func(t *testing.T) {
		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				assert.Empty(t, file)
				return document.DocumentResponse{ID: uuid.New().String(), Name: req.Name, Status: expiry.StatusSafe}, nil
			},
		}
		h := document.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees/:id/documents", h.Add)

		body, contentType := multipartBody(t, map[string]string{"name": "Employment Contract"}, "", "", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				t.Fatal("service should not be called")
				return document.DocumentResponse{}, nil
			},
		}
		h := document.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees/:id/documents", h.Add)

		body, contentType := multipartBody(t, map[string]string{"expiry_date": "2027-01-31"}, "", "", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+employeeID+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("unknown owner maps to 404", func(t *testing.T) {
		svc := &fakeDocumentService{
			AddFn: func(ctx context.Context, empID string, req document.AddDocumentRequest, file []byte, filename string) (document.DocumentResponse, error) {
				return document.DocumentResponse{}, documenterrors.ErrOwnerNotFound
			},
		}
		h := document.NewHandler(svc)
		r := setupRouter()
		r.POST("/employees/:id/documents", h.Add)

		body, contentType := multipartBody(t, map[string]string{"name": "Passport"}, "", "", nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/employees/"+uuid.New().String()+"/documents", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDocumentHandler_Delete(t *testing.T) {
	svc := &fakeDocumentService{
		DeleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	}
	h := document.NewHandler(svc)
	r := setupRouter()
	r.DELETE("/employees/:id/documents/:docId", h.Delete)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete,
		"/employees/"+uuid.New().String()+"/documents/"+uuid.New().String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
