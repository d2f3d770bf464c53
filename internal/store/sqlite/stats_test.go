package sqlite

import (
	"context"
	"testing"
)

func TestGetAssociationStatsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "stats-empty@example.com")

	stats, err := s.GetAssociationStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssociationStats: %v", err)
	}
	if stats.TotalExperiences != 0 || stats.TotalBulletsUsed != 0 || stats.TotalAssociations != 0 {
		t.Errorf("expected zeros, got %+v", stats)
	}
	if stats.AvgBulletsPerExperience != 0 {
		t.Errorf("expected 0 average with no links, got %v", stats.AvgBulletsPerExperience)
	}
}

func TestGetAssociationStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "stats@example.com")
	otherID := makeTestUser(t, s, "stats-other@example.com")

	linked := makeTestExperience(t, s, userID, "Linked Corp", mustDate(t, "2022-01-01"))
	bare := makeTestExperience(t, s, userID, "Bare Corp", mustDate(t, "2021-01-01"))
	_ = bare

	for _, text := range []string{"a", "b", "c"} {
		b := makeTestBullet(t, s, userID, text)
		if _, err := s.AssociateBullet(ctx, userID, linked.ID, b.ID); err != nil {
			t.Fatalf("AssociateBullet(%s): %v", text, err)
		}
	}

	// Another user's data must not bleed into the aggregate.
	otherExp := makeTestExperience(t, s, otherID, "Other Corp", mustDate(t, "2022-01-01"))
	otherBullet := makeTestBullet(t, s, otherID, "other")
	if _, err := s.AssociateBullet(ctx, otherID, otherExp.ID, otherBullet.ID); err != nil {
		t.Fatalf("AssociateBullet (other): %v", err)
	}

	stats, err := s.GetAssociationStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssociationStats: %v", err)
	}

	if stats.TotalExperiences != 2 {
		t.Errorf("TotalExperiences: got %d, want 2", stats.TotalExperiences)
	}
	if stats.TotalBulletsUsed != 3 {
		t.Errorf("TotalBulletsUsed: got %d, want 3", stats.TotalBulletsUsed)
	}
	if stats.TotalAssociations != 3 {
		t.Errorf("TotalAssociations: got %d, want 3", stats.TotalAssociations)
	}
	// The bulletless experience does not dilute the average: 3, not 1.5.
	if stats.AvgBulletsPerExperience != 3 {
		t.Errorf("AvgBulletsPerExperience: got %v, want 3", stats.AvgBulletsPerExperience)
	}
}

func TestGetAssociationStatsSharedBullet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	userID := makeTestUser(t, s, "stats-shared@example.com")
	e1 := makeTestExperience(t, s, userID, "One", mustDate(t, "2022-01-01"))
	e2 := makeTestExperience(t, s, userID, "Two", mustDate(t, "2021-01-01"))
	b := makeTestBullet(t, s, userID, "reused everywhere")

	if _, err := s.AssociateBullet(ctx, userID, e1.ID, b.ID); err != nil {
		t.Fatalf("AssociateBullet: %v", err)
	}
	if _, err := s.AssociateBullet(ctx, userID, e2.ID, b.ID); err != nil {
		t.Fatalf("AssociateBullet: %v", err)
	}

	stats, err := s.GetAssociationStats(ctx, userID)
	if err != nil {
		t.Fatalf("GetAssociationStats: %v", err)
	}

	// One distinct bullet, two associations.
	if stats.TotalBulletsUsed != 1 {
		t.Errorf("TotalBulletsUsed: got %d, want 1", stats.TotalBulletsUsed)
	}
	if stats.TotalAssociations != 2 {
		t.Errorf("TotalAssociations: got %d, want 2", stats.TotalAssociations)
	}
	if stats.AvgBulletsPerExperience != 1 {
		t.Errorf("AvgBulletsPerExperience: got %v, want 1", stats.AvgBulletsPerExperience)
	}
}
