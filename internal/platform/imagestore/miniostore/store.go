// Package miniostore は S3 互換ストレージ (MinIO) に画像を保存する画像ストアです。
package miniostore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"marketplace_backend/internal/shared/media"
)

// ObjectStore は Store が使用する minio クライアントの操作です。
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL は公開URLのベースです。空の場合は Endpoint から組み立てます。
	PublicURL string
}

type Store struct {
	client    ObjectStore
	bucket    string
	publicURL string
	newID     func() string
}

// New は minio クライアントを作成し Store を返します。
func New(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio: endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to create client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}
	return NewWithClient(client, cfg.Bucket, publicURL), nil
}

func NewWithClient(client ObjectStore, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newID:     uuid.NewString,
	}
}

// EnsureBucket はバケットが存在しなければ作成します。
func (s *Store) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket %q: %w", s.bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: failed to create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Upload は dataURI をデコードし folder 配下に一意な名前で保存します。
func (s *Store) Upload(ctx context.Context, dataURI, folder string) (*media.Image, error) {
	mimeType, data, err := media.ParseDataURI(dataURI)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, media.ErrMissingFile
	}

	format := formatOf(mimeType)
	id := s.newID()
	folder = strings.Trim(folder, "/")
	publicID := path.Join(folder, id)
	object := publicID
	if format != "" {
		object += "." + format
	}

	info, err := s.client.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("minio: failed to put object %q: %w", object, err)
	}

	url := s.publicURL + "/" + s.bucket + "/" + object
	return &media.Image{
		PublicID:  publicID,
		URL:       url,
		SecureURL: url,
		Folder:    folder,
		Format:    format,
		Bytes:     info.Size,
	}, nil
}

// formatOf は MIME タイプから拡張子 (ドットなし) を求めます。
func formatOf(mimeType string) string {
	if sub, ok := strings.CutPrefix(mimeType, "image/"); ok && sub != "" {
		if sub == "jpeg" {
			return "jpg"
		}
		return strings.TrimSuffix(sub, "+xml")
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return strings.TrimPrefix(exts[0], ".")
}
