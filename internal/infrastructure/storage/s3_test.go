package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	apperror "github.com/bravo68web/repodash/pkg/errors"
)

// fakeS3 is an in-memory bucket. CopySource is URL-decoded ('+' as space)
// so an unescaped source naming a key with special characters misses.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	failAt  int // fail the nth CopyObject call when > 0
	copies  int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.copies++
	if f.failAt > 0 && f.copies == f.failAt {
		return nil, errors.New("copy failed")
	}

	bucket, escaped, ok := strings.Cut(aws.ToString(in.CopySource), "/")
	if !ok || bucket != aws.ToString(in.Bucket) {
		return nil, fmt.Errorf("bad copy source %q", aws.ToString(in.CopySource))
	}
	if strings.Contains(escaped, " ") {
		return nil, fmt.Errorf("copy source %q is not URL-encoded", escaped)
	}
	src, err := url.QueryUnescape(escaped)
	if err != nil {
		return nil, err
	}
	data, ok := f.objects[src]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", src)
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, obj := range in.Delete.Objects {
		delete(f.objects, aws.ToString(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if limit := int(aws.ToInt32(in.MaxKeys)); limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestCopySourceEscapesEachSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"uploads/.staging/u1/a.txt", "bucket/uploads/.staging/u1/a.txt"},
		{"uploads/.staging/u1/my report.pdf", "bucket/uploads/.staging/u1/my%20report.pdf"},
		{"p/c++.txt", "bucket/p/c%2B%2B.txt"},
		{"p/100%.txt", "bucket/p/100%25.txt"},
		{"p/résumé.txt", "bucket/p/r%C3%A9sum%C3%A9.txt"},
	}
	for _, tt := range tests {
		if got := copySource("bucket", tt.key); got != tt.want {
			t.Errorf("copySource(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestS3PublishFilesWithSpecialCharacters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeS3()
	s := newS3Storage(fake, "bucket", "uploads")

	st, err := s.Stage(ctx)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	names := []string{"my report.pdf", "c++.txt", "100%.txt", "résumé.txt"}
	for _, name := range names {
		if err := st.Write(ctx, name, strings.NewReader(name)); err != nil {
			t.Fatalf("Write(%q): %v", name, err)
		}
	}

	if _, err := st.Publish(ctx, "rec"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := s.List(ctx, "rec")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := append([]string(nil), names...)
	sort.Strings(want)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("published = %v, want %v", got, want)
	}
	for _, k := range fake.keys() {
		if strings.Contains(k, stagingDir) {
			t.Fatalf("staged object %q left after publish", k)
		}
	}
}

func TestS3PublishRollsBackOnCopyFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeS3()
	fake.failAt = 2
	s := newS3Storage(fake, "bucket", "uploads/")

	st, _ := s.Stage(ctx)
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := st.Write(ctx, name, strings.NewReader(name)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if _, err := st.Publish(ctx, "rec"); err == nil {
		t.Fatalf("expected publish error")
	}
	if ok, _ := s.Exists(ctx, "rec"); ok {
		t.Fatalf("partial publish visible under id: %v", fake.keys())
	}

	if err := st.Discard(ctx); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if keys := fake.keys(); len(keys) != 0 {
		t.Fatalf("objects left after discard: %v", keys)
	}
}

func TestS3PublishToExistingIDConflicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newS3Storage(newFakeS3(), "bucket", "")

	for i := 0; i < 2; i++ {
		st, _ := s.Stage(ctx)
		if err := st.Write(ctx, "a.txt", strings.NewReader("x")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		_, err := st.Publish(ctx, "same")
		if i == 0 && err != nil {
			t.Fatalf("first Publish: %v", err)
		}
		if i == 1 && !apperror.IsConflict(err) {
			t.Fatalf("second Publish err = %v, want conflict", err)
		}
	}
}

func TestS3RemoveDeletesPublishedObjects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeS3()
	s := newS3Storage(fake, "bucket", "uploads")

	st, _ := s.Stage(ctx)
	_ = st.Write(ctx, "a.txt", strings.NewReader("x"))
	if _, err := st.Publish(ctx, "rec"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if err := s.Remove(ctx, "rec"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.List(ctx, "rec"); !apperror.IsNotFound(err) {
		t.Fatalf("List after Remove err = %v, want not found", err)
	}
	if err := s.Remove(ctx, "rec"); err != nil {
		t.Fatalf("Remove of missing id: %v", err)
	}
}
