package objectstore

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhramtsov/siteforms/internal/common"
	sc "github.com/mkhramtsov/siteforms/internal/config"
)

func newTestStore() *S3Store {
	return &S3Store{
		client:       &s3.Client{},
		bucket:       "media",
		region:       "us-east-1",
		baseEndpoint: "http://127.0.0.1:9000/",
		pathStyle:    true,
	}
}

func TestNewS3Store_BuildsClient(t *testing.T) {
	cfg := &sc.Config{}
	cfg.LoadDefaults()

	st, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, cfg.S3Bucket, st.bucket)
}

func TestPut_SendsConditionalWrite(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	var got *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		got = in
		return &s3.PutObjectOutput{}, nil
	}

	st := newTestStore()
	err := st.Put(context.Background(), "records/r1/a.jpg", []byte("bytes"), "image/jpeg")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "media", aws.ToString(got.Bucket))
	assert.Equal(t, "records/r1/a.jpg", aws.ToString(got.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(got.ContentType))
	assert.Equal(t, "*", aws.ToString(got.IfNoneMatch), "put must refuse overwrite")

	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), body)
}

func TestPut_ExistingKeyMapsToErrorKeyExists(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "object exists"}
	}

	st := newTestStore()
	err := st.Put(context.Background(), "k", nil, "image/png")
	require.ErrorIs(t, err, common.ErrorKeyExists)
}

func TestPut_OtherErrorIsWrapped(t *testing.T) {
	orig := putObject
	defer func() { putObject = orig }()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("connection refused")
	}

	st := newTestStore()
	err := st.Put(context.Background(), "k", nil, "image/png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorKeyExists)
}

func TestRemove_BatchesKeys(t *testing.T) {
	orig := deleteObjects
	defer func() { deleteObjects = orig }()

	var got *s3.DeleteObjectsInput
	deleteObjects = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		got = in
		return &s3.DeleteObjectsOutput{}, nil
	}

	st := newTestStore()
	require.NoError(t, st.Remove(context.Background(), "k1", "k2"))

	require.NotNil(t, got)
	require.Len(t, got.Delete.Objects, 2)
	assert.Equal(t, "k1", aws.ToString(got.Delete.Objects[0].Key))
	assert.Equal(t, "k2", aws.ToString(got.Delete.Objects[1].Key))
}

func TestRemove_NoKeysIsNoop(t *testing.T) {
	orig := deleteObjects
	defer func() { deleteObjects = orig }()

	called := false
	deleteObjects = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		called = true
		return &s3.DeleteObjectsOutput{}, nil
	}

	st := newTestStore()
	require.NoError(t, st.Remove(context.Background()))
	assert.False(t, called)
}

func TestRemove_PartialFailureReported(t *testing.T) {
	orig := deleteObjects
	defer func() { deleteObjects = orig }()

	deleteObjects = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectsInput) (*s3.DeleteObjectsOutput, error) {
		return &s3.DeleteObjectsOutput{Errors: []types.Error{
			{Key: aws.String("k1"), Message: aws.String("access denied")},
		}}, nil
	}

	st := newTestStore()
	err := st.Remove(context.Background(), "k1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k1")
}

func TestPublicReference_IsDeterministic(t *testing.T) {
	st := newTestStore()

	url := st.PublicReference("records/r1/a.jpg")
	assert.Equal(t, "http://127.0.0.1:9000/media/records/r1/a.jpg", url)
	assert.Equal(t, url, st.PublicReference("records/r1/a.jpg"))

	st.pathStyle = false
	assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com/records/r1/a.jpg",
		st.PublicReference("records/r1/a.jpg"))
}
