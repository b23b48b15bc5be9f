// Package cloudinary は Cloudinary の署名付きアップロード API を使う画像ストアです。
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldlogger "github.com/cloudinary/cloudinary-go/v2/logger"
	"go.uber.org/zap"

	"marketplace_backend/internal/platform/httpclient"
	"marketplace_backend/internal/shared/media"
)

// DefaultBaseURL は Cloudinary API のベースURLです。
const DefaultBaseURL = "https://api.cloudinary.com"

// Config は Cloudinary の接続設定です。
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
}

// Client は data URI を Cloudinary にアップロードします。
type Client struct {
	cfg Config
	sdk *cld.Cloudinary
}

// New は Client を作成します。CloudName, APIKey, APISecret は必須です。
func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary: cloud name, api key and api secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	sdk, err := cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	// Upload API は設定のコピーを持つため、こちらを書き換える
	sdk.Upload.Config.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	sdk.Upload.Config.API.Timeout = max(int64(cfg.Timeout/time.Second), 1)
	sdk.Upload.Client = *httpclient.New(cfg.Timeout)
	sdk.Logger.Writer = zapWriter{l: zap.L().Named("cloudinary").Sugar()}

	return &Client{cfg: cfg, sdk: sdk}, nil
}

// Upload は dataURI を folder 配下にアップロードし、保存された画像の参照を返します。
func (c *Client) Upload(ctx context.Context, dataURI, folder string) (*media.Image, error) {
	res, err := c.sdk.Upload.Upload(ctx, dataURI, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	// API エラーは err ではなく結果の Error に入る
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}
	if res.PublicID == "" {
		return nil, nil
	}

	resFolder := res.AssetFolder
	if resFolder == "" {
		resFolder = strings.Trim(folder, "/")
	}
	return &media.Image{
		PublicID:  res.PublicID,
		URL:       res.URL,
		SecureURL: res.SecureURL,
		Folder:    resFolder,
		Format:    res.Format,
		Bytes:     int64(res.Bytes),
		Width:     res.Width,
		Height:    res.Height,
	}, nil
}

// zapWriter は SDK のログを zap に流します。
type zapWriter struct {
	l *zap.SugaredLogger
}

var _ cldlogger.LogWriter = zapWriter{}

func (w zapWriter) Debug(v ...interface{}) { w.l.Debug(v...) }
func (w zapWriter) Error(v ...interface{}) { w.l.Error(v...) }
