// Package media はアップロードされたファイルと画像ストアが返す画像参照を表現します。
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

var (
	// ErrMissingFile はアップロードファイルが存在しない、または空の場合に返されます。
	ErrMissingFile = errors.New("no file was uploaded")
	// ErrInvalidDataURI は data URI の形式が不正な場合に返されます。
	ErrInvalidDataURI = errors.New("invalid data uri")
)

// File はクライアントからアップロードされたファイルです。
type File struct {
	Filename string
	MimeType string
	Data     []byte
}

// Image は画像ストアに保存された画像への参照です。
// JSON のキーはレスポンスとキャッシュの両方でそのまま使われます。
type Image struct {
	PublicID  string `json:"public_id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Folder    string `json:"folder,omitempty"`
	Format    string `json:"format,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// ToDataURI はファイルを "data:<mime>;base64,<payload>" 形式に変換します。
func ToDataURI(f *File) (string, error) {
	if f == nil || len(f.Data) == 0 {
		return "", ErrMissingFile
	}
	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(f.Data)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(f.Data), nil
}

// ParseDataURI は ToDataURI の逆変換を行い、MIME タイプとデコード済みバイト列を返します。
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mimeType, data, nil
}

// FromFormFile はマルチパートのファイルヘッダを読み込み File に変換します。
// fh が nil の場合は (nil, nil) を返します。
func FromFormFile(fh *multipart.FileHeader) (*File, error) {
	if fh == nil {
		return nil, nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return &File{Filename: fh.Filename, MimeType: mimeType, Data: data}, nil
}
