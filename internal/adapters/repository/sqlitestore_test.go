package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hireloop/jobsync/internal/adapters/repository"
	"github.com/hireloop/jobsync/internal/domain/model"
)

func openTestStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.Open(filepath.Join(t.TempDir(), "jobsync.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleApplication(id, listingID string) model.Application {
	return model.Application{
		ID:          id,
		ListingID:   listingID,
		ApplicantID: "u1",
		Profile: model.CandidateProfile{
			Name:       "Ada",
			Email:      "ada@example.com",
			Phone:      "+1 555 0100",
			Skills:     []string{"go", "sql"},
			Experience: "5 years backend",
			Education:  "BSc",
			ResumeRef:  "resumes/u1.pdf",
		},
		SubmittedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := sampleApplication("a1", "j1")
	if err := store.SaveApplication(ctx, want); err != nil {
		t.Fatalf("SaveApplication: %v", err)
	}

	got, err := store.GetApplication(ctx, "a1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.ListingID != want.ListingID || got.Profile.Name != want.Profile.Name {
		t.Errorf("roundtrip mismatch: got %+v", got)
	}
	if len(got.Profile.Skills) != 2 || got.Profile.Skills[0] != "go" {
		t.Errorf("skills mismatch: %v", got.Profile.Skills)
	}
	if !got.SubmittedAt.Equal(want.SubmittedAt) {
		t.Errorf("submitted_at mismatch: %v vs %v", got.SubmittedAt, want.SubmittedAt)
	}
}

func TestSQLiteStore_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetApplication(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_CountApplications(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"a1", "a2", "a3"} {
		listing := "j1"
		if i == 2 {
			listing = "j2"
		}
		if err := store.SaveApplication(ctx, sampleApplication(id, listing)); err != nil {
			t.Fatalf("SaveApplication: %v", err)
		}
	}

	n, err := store.CountApplications(ctx, "j1")
	if err != nil {
		t.Fatalf("CountApplications: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	n, err = store.CountApplications(ctx, "unknown")
	if err != nil {
		t.Fatalf("CountApplications: %v", err)
	}
	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestSQLiteStore_DuplicateIDRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveApplication(ctx, sampleApplication("a1", "j1")); err != nil {
		t.Fatalf("SaveApplication: %v", err)
	}
	if err := store.SaveApplication(ctx, sampleApplication("a1", "j1")); err == nil {
		t.Error("expected primary key violation on duplicate id")
	}
}
