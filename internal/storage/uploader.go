package storage

import "context"

//go:generate mockgen -source=uploader.go -destination=mock/uploader_mock.go -package=mock

// Uploader menyimpan berkas lampiran dokumen di object storage dan
// mengembalikan URL yang dicatat di kolom file_url.
type Uploader interface {
	Upload(ctx context.Context, content []byte, path string) (string, error)
	Delete(ctx context.Context, path string) error
}
