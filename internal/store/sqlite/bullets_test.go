package sqlite

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store"
)

func TestCreateAndGetBullet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "bullets@example.com")
	b := makeTestBullet(t, s, userID, "Shipped the big thing")

	got, err := s.GetBullet(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBullet: %v", err)
	}
	if got.Text != b.Text {
		t.Errorf("Text: got %q, want %q", got.Text, b.Text)
	}
	if got.UserID != userID {
		t.Errorf("UserID: got %d, want %d", got.UserID, userID)
	}
}

func TestCreateBulletTooLong(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "long@example.com")
	b := &domain.Bullet{UserID: userID, Text: strings.Repeat("x", domain.MaxBulletTextLength+1)}
	err := s.CreateBullet(ctx, b)
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearchBullets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "search@example.com")
	otherID := makeTestUser(t, s, "searchother@example.com")

	makeTestBullet(t, s, userID, "Led migration to Kubernetes")
	makeTestBullet(t, s, userID, "Reduced latency by 40%")
	makeTestBullet(t, s, userID, "Mentored junior engineers")
	makeTestBullet(t, s, otherID, "Kubernetes cluster admin")

	// Case-insensitive substring match, scoped to the searching user.
	got, err := s.SearchBullets(ctx, userID, "kubernetes", store.ListOptions{})
	if err != nil {
		t.Fatalf("SearchBullets: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if !strings.Contains(got[0].Text, "Kubernetes") {
		t.Errorf("unexpected match: %q", got[0].Text)
	}

	// LIKE wildcards in the term must match literally, not as wildcards.
	got, err = s.SearchBullets(ctx, userID, "40%", store.ListOptions{})
	if err != nil {
		t.Fatalf("SearchBullets: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match for %%-term, got %d", len(got))
	}

	got, err = s.SearchBullets(ctx, userID, "%", store.ListOptions{})
	if err != nil {
		t.Fatalf("SearchBullets: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("bare %% should only match literal %%, got %d results", len(got))
	}
}

func TestUpdateBullet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "update@example.com")
	b := makeTestBullet(t, s, userID, "Old text")

	b.Text = "New text"
	if err := s.UpdateBullet(ctx, b); err != nil {
		t.Fatalf("UpdateBullet: %v", err)
	}

	got, err := s.GetBullet(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBullet: %v", err)
	}
	if got.Text != "New text" {
		t.Errorf("Text: got %q", got.Text)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("UpdatedAt not advanced")
	}
}

func TestDeleteBulletRemovesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "delbullet@example.com")
	b := makeTestBullet(t, s, userID, "Linked bullet")
	e1 := makeTestExperience(t, s, userID, "Acme", mustDate(t, "2021-01-01"))
	e2 := makeTestExperience(t, s, userID, "Globex", mustDate(t, "2022-01-01"))

	for _, e := range []*domain.Experience{e1, e2} {
		if _, err := s.AssociateBullet(ctx, userID, e.ID, b.ID); err != nil {
			t.Fatalf("AssociateBullet: %v", err)
		}
	}

	removed, err := s.DeleteBullet(ctx, b.ID)
	if err != nil {
		t.Fatalf("DeleteBullet: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 links removed, got %d", removed)
	}

	// Both experiences survive with empty bullet lists.
	for _, e := range []*domain.Experience{e1, e2} {
		bullets, err := s.ListLinksByExperience(ctx, e.ID)
		if err != nil {
			t.Fatalf("ListLinksByExperience: %v", err)
		}
		if len(bullets) != 0 {
			t.Errorf("experience %d still has %d bullets", e.ID, len(bullets))
		}
	}

	if _, err := s.DeleteBullet(ctx, b.ID); !errors.Is(err, store.ErrBulletNotFound) {
		t.Fatalf("expected ErrBulletNotFound, got %v", err)
	}
}
