package objectclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/cardscan/internal/config"
)

func TestNewS3Client_Validation(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *config.Config
		errMsg string
	}{
		{"missing region", &config.Config{BucketName: "cards"}, "AWS_REGION"},
		{"missing bucket", &config.Config{AwsRegion: "me-central-1"}, "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewS3Client(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewS3Client_StaticCredentials(t *testing.T) {
	cfg := &config.Config{
		AwsRegion:    "me-central-1",
		BucketName:   "cards",
		AwsAccessKey: "AKIAEXAMPLE",
		AwsSecretKey: "secret",
	}

	c, err := NewS3Client(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "me-central-1", c.region)
	assert.Greater(t, c.timeout.Seconds(), 0.0)
}

type s3Call struct {
	method string
	path   string
}

// fakeS3 answers path-style PutObject, GetObject and DeleteObject requests.
func fakeS3(t *testing.T) (*httptest.Server, func() []s3Call) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []s3Call
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		calls = append(calls, s3Call{method: r.Method, path: r.URL.Path})
		mu.Unlock()

		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			w.Header().Set("Content-Length", "10")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("card-bytes"))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)

	return srv, func() []s3Call {
		mu.Lock()
		defer mu.Unlock()
		return append([]s3Call(nil), calls...)
	}
}

func TestS3Client_RoundTrip(t *testing.T) {
	srv, calls := fakeS3(t)
	cfg := &config.Config{
		AwsRegion:    "me-central-1",
		BucketName:   "cards",
		AwsAccessKey: "AKIAEXAMPLE",
		AwsSecretKey: "secret",
		S3Endpoint:   srv.URL,
	}
	c, err := NewS3Client(context.Background(), cfg, nil)
	require.NoError(t, err)

	const key = "emirates_ids/abc/card.png"
	ctx := context.Background()

	url, err := c.UploadFile(ctx, "cards", key, []byte("card-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cards.s3.me-central-1.amazonaws.com/"+key, url)

	body, err := c.GetFile(ctx, "cards", key)
	require.NoError(t, err)
	assert.Equal(t, []byte("card-bytes"), body)

	require.NoError(t, c.DeleteFile(ctx, "cards", key))

	assert.Equal(t, []s3Call{
		{method: http.MethodPut, path: "/cards/" + key},
		{method: http.MethodGet, path: "/cards/" + key},
		{method: http.MethodDelete, path: "/cards/" + key},
	}, calls())
}

func TestS3Client_DeleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AwsRegion:    "me-central-1",
		BucketName:   "cards",
		AwsAccessKey: "AKIAEXAMPLE",
		AwsSecretKey: "secret",
		S3Endpoint:   srv.URL,
	}
	c, err := NewS3Client(context.Background(), cfg, nil)
	require.NoError(t, err)

	err = c.DeleteFile(context.Background(), "cards", "emirates_ids/abc/card.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3 delete failed")
}
