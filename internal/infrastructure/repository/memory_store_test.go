package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/bravo68web/repodash/internal/domain/models"
	apperror "github.com/bravo68web/repodash/pkg/errors"
)

func TestMemoryRepoRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryRepoRepository()

	in := &models.Repo{ID: "r1", Name: "alpha", Description: "first"}
	if err := store.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.FindByID(ctx, "r1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if *got != *in {
		t.Fatalf("got %+v, want %+v", got, in)
	}
}

func TestMemoryRepoRepositoryUnknownIDIsNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewMemoryRepoRepository().FindByID(context.Background(), "nope")
	if !apperror.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestMemoryRepoRepositoryRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryRepoRepository()
	if err := store.Create(ctx, &models.Repo{ID: "same", Name: "a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, &models.Repo{ID: "same", Name: "b"})
	if !apperror.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}

	got, _ := store.FindByID(ctx, "same")
	if got.Name != "a" {
		t.Fatalf("duplicate create overwrote the first record: %+v", got)
	}
}

func TestMemoryUploadRepoRepositoryPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryUploadRepoRepository()
	for _, id := range []string{"c", "a", "b"} {
		if err := store.Create(ctx, &models.UploadRepo{ID: id, Name: id}); err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var order []string
	for _, r := range list {
		order = append(order, r.ID)
	}
	if fmt.Sprint(order) != "[c a b]" {
		t.Fatalf("order = %v, want [c a b]", order)
	}
}

func TestMemoryUploadRepoRepositoryReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryUploadRepoRepository()
	in := &models.UploadRepo{ID: "x", Name: "x", Files: []string{"a.txt"}}
	if err := store.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in.Files[0] = "mutated"

	got, _ := store.FindByID(ctx, "x")
	got.Files[0] = "mutated-again"

	again, _ := store.FindByID(ctx, "x")
	if again.Files[0] != "a.txt" {
		t.Fatalf("stored record was mutated through a caller copy: %v", again.Files)
	}
}

func TestMemoryUploadRepoRepositoryConcurrentCreates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryUploadRepoRepository()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("id-%d", i)
			if err := store.Create(ctx, &models.UploadRepo{ID: id, Name: id}); err != nil {
				t.Errorf("Create(%s): %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	list, _ := store.List(ctx)
	if len(list) != 64 {
		t.Fatalf("len = %d, want 64", len(list))
	}
}
