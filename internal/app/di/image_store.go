// Package di はアプリケーションコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"marketplace_backend/internal/platform/config"
	"marketplace_backend/internal/platform/imagestore/cloudinary"
	"marketplace_backend/internal/platform/imagestore/miniostore"
	"marketplace_backend/internal/shared/media"
)

// ImageUploader はユーザーとオファーの両フィーチャーが使う画像アップロード機能です。
type ImageUploader interface {
	Upload(ctx context.Context, dataURI, folder string) (*media.Image, error)
}

var (
	_ ImageUploader = (*cloudinary.Client)(nil)
	_ ImageUploader = (*miniostore.Store)(nil)
)

// NewImageUploader は設定された画像ストアの実装を返します。
// MinIO の場合はバケットが無ければ作成します。
func NewImageUploader(ctx context.Context, cfg *config.Config) (ImageUploader, error) {
	switch cfg.ImageStore {
	case config.ImageStoreCloudinary:
		c, err := cloudinary.New(cloudinary.Config{
			CloudName: cfg.Cloudinary.CloudName,
			APIKey:    cfg.Cloudinary.APIKey,
			APISecret: cfg.Cloudinary.APISecret,
			BaseURL:   cfg.Cloudinary.BaseURL,
			Timeout:   cfg.ImageUploadTimeout,
		})
		if err != nil {
			return nil, err
		}
		zap.L().Info("image store configured", zap.String("store", cfg.ImageStore), zap.String("cloud", cfg.Cloudinary.CloudName))
		return c, nil

	case config.ImageStoreMinio:
		s, err := miniostore.New(miniostore.Config{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
			PublicURL: cfg.Minio.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		zap.L().Info("image store configured", zap.String("store", cfg.ImageStore), zap.String("bucket", cfg.Minio.Bucket))
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported image store %q", cfg.ImageStore)
	}
}
