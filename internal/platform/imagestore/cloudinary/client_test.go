package cloudinary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := New(Config{CloudName: "demo", APIKey: "key"})
	assert.Error(t, err)

	c, err := New(Config{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultBaseURL, c.sdk.Upload.Config.API.UploadPrefix)
	assert.Equal(t, int64(30), c.sdk.Upload.Config.API.Timeout)
	assert.Equal(t, 30*time.Second, c.sdk.Upload.Client.Timeout)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{CloudName: "demo", APIKey: "key", APISecret: "abcd", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	return c
}

// readForm decodes the urlencoded body the SDK sends for data URI uploads.
func readForm(t *testing.T, r *http.Request) url.Values {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	form, err := url.ParseQuery(string(body))
	require.NoError(t, err)
	return form
}

func TestClient_Upload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1_1/demo/auto/upload", r.URL.Path)

		form := readForm(t, r)
		assert.Equal(t, "data:image/png;base64,cG5n", form.Get("file"))
		assert.Equal(t, "/vinted/offres", form.Get("folder"))
		assert.Equal(t, "key", form.Get("api_key"))
		assert.NotEmpty(t, form.Get("timestamp"))
		assert.Len(t, form.Get("signature"), 40, "sha1 hex signature")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"public_id":"vinted/offres/abc","url":"http://res.cloudinary.com/demo/abc.png",
			"secure_url":"https://res.cloudinary.com/demo/abc.png","asset_folder":"vinted/offres",
			"format":"png","bytes":3,"width":1,"height":1}`))
	})

	img, err := c.Upload(context.Background(), "data:image/png;base64,cG5n", "/vinted/offres")

	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "vinted/offres/abc", img.PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo/abc.png", img.SecureURL)
	assert.Equal(t, "vinted/offres", img.Folder)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, int64(3), img.Bytes)
	assert.Equal(t, 1, img.Width)
}

func TestClient_Upload_FolderFallsBackToRequest(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"vinted/avatar/u1","secure_url":"https://res.cloudinary.com/demo/u1.png"}`))
	})

	img, err := c.Upload(context.Background(), "data:image/png;base64,cG5n", "/vinted/avatar")

	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "vinted/avatar", img.Folder)
}

func TestClient_Upload_APIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	})

	img, err := c.Upload(context.Background(), "data:image/png;base64,cG5n", "/vinted/avatar")

	assert.Nil(t, img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestClient_Upload_EmptyResult(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	img, err := c.Upload(context.Background(), "data:image/png;base64,cG5n", "/vinted/avatar")

	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestClient_Upload_ContextCanceled(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Upload(ctx, "data:image/png;base64,cG5n", "/vinted/avatar")

	assert.Error(t, err)
}

func TestZapWriter(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	w := zapWriter{l: zap.New(core).Sugar()}

	w.Debug("request", "body")
	w.Error("upload failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "upload failed", entries[1].Message)
}
