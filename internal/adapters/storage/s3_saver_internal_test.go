package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Saver_Save(t *testing.T) {
	putter := &fakePutter{}
	saver := newS3Saver(putter, "reports", "exports/")

	require.NoError(t, saver.Save(context.Background(), "orders.csv", []byte("a,b\n")))

	assert.Equal(t, "reports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "exports/orders.csv", aws.ToString(putter.input.Key))
	assert.Contains(t, aws.ToString(putter.input.ContentType), "text/csv")
	assert.Equal(t, "a,b\n", string(putter.body))
}

func TestS3Saver_PutError(t *testing.T) {
	saver := newS3Saver(&fakePutter{err: errors.New("access denied")}, "reports", "")

	err := saver.Save(context.Background(), "orders.xlsx", []byte("x"))
	assert.ErrorContains(t, err, "orders.xlsx")
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Saver_RequiresBucket(t *testing.T) {
	_, err := NewS3Saver(context.Background(), S3SaverConfig{Region: "us-east-1"})
	assert.Error(t, err)
}
