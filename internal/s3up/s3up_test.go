package s3up

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3 records calls and serves canned object metadata.
type fakeS3 struct {
	putKey   string
	putBody  []byte
	headSize int64
	headErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putKey = aws.ToString(in.Key)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.putBody = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(f.headSize)}, nil
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{Region: "us-east-1"}); err == nil {
		t.Fatalf("empty bucket accepted")
	}
}

func TestUploadAndVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vehicles_120000.parquet")
	payload := []byte("not really parquet but good enough here")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	fake := &fakeS3{headSize: int64(len(payload))}
	u := newFromClient(fake, "datalake")

	url, err := u.Upload(context.Background(), "bronze/magenta/vehicles/execution_date=2026-08-30/vehicles_120000.parquet", path)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "s3://datalake/bronze/") {
		t.Fatalf("url: %s", url)
	}
	if string(fake.putBody) != string(payload) {
		t.Fatalf("uploaded body differs")
	}

	if err := u.Verify(context.Background(), fake.putKey, int64(len(payload))); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// A size mismatch must be reported as corruption.
	fake.headSize = 3
	if err := u.Verify(context.Background(), fake.putKey, int64(len(payload))); err == nil {
		t.Fatalf("truncated upload not detected")
	}
}
