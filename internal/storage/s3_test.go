package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T) *S3Presigner {
	t.Helper()
	p, err := NewS3Presigner(context.Background(), Options{
		Bucket:    "fintrack",
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		TTL:       10 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

func TestNewS3Presigner_Disabled(t *testing.T) {
	_, err := NewS3Presigner(context.Background(), Options{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestPresignUpload_PathStyleSignedURL(t *testing.T) {
	p := newTestPresigner(t)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	got, err := p.PresignUpload(context.Background(), "projects/p1/cover.png")
	require.NoError(t, err)

	u, err := url.Parse(got.URL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/fintrack/projects/p1/cover.png", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.Equal(t, fixed.Add(10*time.Minute), got.ExpiresAt)
}

func TestPresignDownload_Error(t *testing.T) {
	p := newTestPresigner(t)

	orig := presignGetObject
	t.Cleanup(func() { presignGetObject = orig })
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("boom")
	}

	_, err := p.PresignDownload(context.Background(), "tasks/t1/spec.pdf")
	assert.ErrorContains(t, err, "presign download")
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("projects", "p1", `..\..\etc/passwd`)
	assert.True(t, strings.HasPrefix(key, "projects/p1/"))
	assert.True(t, strings.HasSuffix(key, "-passwd"))
	assert.NotContains(t, key, "..")

	key = ObjectKey("tasks", "t1", "")
	assert.True(t, strings.HasSuffix(key, "-file"))
}
