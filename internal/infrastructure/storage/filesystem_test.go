package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	apperror "github.com/bravo68web/repodash/pkg/errors"
)

func newTestStorage(t *testing.T) *FilesystemStorage {
	t.Helper()
	s, err := NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage: %v", err)
	}
	return s
}

func TestStagedFilesAreInvisibleUntilPublished(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	st, err := s.Stage(ctx)
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if err := st.Write(ctx, "a.txt", strings.NewReader("alpha")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if ok, _ := s.Exists(ctx, "rec"); ok {
		t.Fatalf("record visible before publish")
	}

	path, err := st.Publish(ctx, "rec")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if path != filepath.Join(s.Root(), "rec") {
		t.Fatalf("path = %q", path)
	}

	data, err := os.ReadFile(s.Path("rec", "a.txt"))
	if err != nil {
		t.Fatalf("read published file: %v", err)
	}
	if string(data) != "alpha" {
		t.Fatalf("content = %q, want alpha", data)
	}

	// Discard after publish must not touch the published directory
	if err := st.Discard(ctx); err != nil {
		t.Fatalf("Discard after publish: %v", err)
	}
	if ok, _ := s.Exists(ctx, "rec"); !ok {
		t.Fatalf("published record removed by Discard")
	}
}

func TestConcurrentWritesListSorted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)
	st, _ := s.Stage(ctx)

	names := []string{"c.txt", "a.txt", "b.txt", "d.bin"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := st.Write(ctx, name, strings.NewReader(name)); err != nil {
				t.Errorf("Write(%s): %v", name, err)
			}
		}(name)
	}
	wg.Wait()

	if _, err := st.Publish(ctx, "rec"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := s.List(ctx, "rec")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if strings.Join(got, ",") != "a.txt,b.txt,c.txt,d.bin" {
		t.Fatalf("List = %v", got)
	}
}

func TestDiscardRemovesStagingDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)
	st, _ := s.Stage(ctx)
	if err := st.Write(ctx, "a.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := st.Discard(ctx); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if err := st.Discard(ctx); err != nil {
		t.Fatalf("second Discard: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(s.Root(), stagingDir))
	if err != nil {
		t.Fatalf("read staging root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staging root not empty: %d entries", len(entries))
	}

	if _, err := st.Publish(ctx, "rec"); err == nil {
		t.Fatalf("Publish after Discard succeeded")
	}
}

func TestWriteRejectsUnsafeAndDuplicateNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)
	st, _ := s.Stage(ctx)
	defer st.Discard(ctx)

	for _, name := range []string{"", ".", "..", "../escape", "dir/file", `win\file`} {
		if err := st.Write(ctx, name, strings.NewReader("x")); !apperror.IsBadRequest(err) {
			t.Fatalf("Write(%q) err = %v, want bad request", name, err)
		}
	}

	if err := st.Write(ctx, "same.txt", strings.NewReader("1")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := st.Write(ctx, "same.txt", strings.NewReader("2")); !apperror.IsBadRequest(err) {
		t.Fatalf("duplicate err = %v, want bad request", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestFailedWriteLeavesNoPartialFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)
	st, _ := s.Stage(ctx)
	defer st.Discard(ctx)

	if err := st.Write(ctx, "broken.bin", failingReader{}); err == nil {
		t.Fatalf("Write with failing reader succeeded")
	}

	stage := st.(*fsStaging)
	if _, err := os.Stat(filepath.Join(stage.dir, "broken.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial file left behind: %v", err)
	}
}

func TestPublishRefusesExistingID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	first, _ := s.Stage(ctx)
	_ = first.Write(ctx, "a.txt", strings.NewReader("first"))
	if _, err := first.Publish(ctx, "rec"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	second, _ := s.Stage(ctx)
	_ = second.Write(ctx, "a.txt", strings.NewReader("second"))
	if _, err := second.Publish(ctx, "rec"); !apperror.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	_ = second.Discard(ctx)

	data, _ := os.ReadFile(s.Path("rec", "a.txt"))
	if string(data) != "first" {
		t.Fatalf("published content replaced: %q", data)
	}
}

func TestListUnknownIDIsNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStorage(t)
	if _, err := s.List(context.Background(), "missing"); !apperror.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := s.List(context.Background(), "../etc"); !apperror.IsBadRequest(err) {
		t.Fatalf("err = %v, want bad request", err)
	}
}
