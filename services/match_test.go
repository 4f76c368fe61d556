package services

import (
	"testing"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
)

func TestMutualLikeCreatesMatch(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com", models.RoleMember)
	bob := createTestUser(t, "bob@example.com", models.RoleMember)
	svc := NewMatchService()

	match, err := svc.Like(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("first like failed: %v", err)
	}
	if match != nil {
		t.Error("one-sided like created a match")
	}

	match, err = svc.Like(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("mutual like failed: %v", err)
	}
	if match == nil {
		t.Fatal("mutual like did not create a match")
	}
	if match.UserAID != alice.ID || match.UserBID != bob.ID {
		t.Errorf("match pair = (%d, %d), want canonical (%d, %d)",
			match.UserAID, match.UserBID, alice.ID, bob.ID)
	}
}

func TestRepeatedLikeIsNoOp(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com", models.RoleMember)
	bob := createTestUser(t, "bob@example.com", models.RoleMember)
	svc := NewMatchService()

	if _, err := svc.Like(alice.ID, bob.ID); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if _, err := svc.Like(alice.ID, bob.ID); err != nil {
		t.Fatalf("repeated like failed: %v", err)
	}

	var likes int64
	config.DB.Model(&models.Like{}).Where("user_id = ?", alice.ID).Count(&likes)
	if likes != 1 {
		t.Errorf("like rows = %d, want 1", likes)
	}

	// Liking back twice still yields exactly one match.
	if _, err := svc.Like(bob.ID, alice.ID); err != nil {
		t.Fatalf("like back failed: %v", err)
	}
	if _, err := svc.Like(bob.ID, alice.ID); err != nil {
		t.Fatalf("second like back failed: %v", err)
	}

	var matches int64
	config.DB.Model(&models.Match{}).Count(&matches)
	if matches != 1 {
		t.Errorf("match rows = %d, want 1", matches)
	}
}

func TestSelfLikeRejected(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com", models.RoleMember)
	svc := NewMatchService()

	if _, err := svc.Like(alice.ID, alice.ID); err == nil {
		t.Error("self like accepted")
	}
}

func TestGetMatchesCoversBothSides(t *testing.T) {
	setupTestDB(t)
	alice := createTestUser(t, "alice@example.com", models.RoleMember)
	bob := createTestUser(t, "bob@example.com", models.RoleMember)
	carol := createTestUser(t, "carol@example.com", models.RoleMember)
	svc := NewMatchService()

	svc.Like(alice.ID, bob.ID)
	svc.Like(bob.ID, alice.ID)
	svc.Like(carol.ID, alice.ID)
	svc.Like(alice.ID, carol.ID)

	matches, err := svc.GetMatches(alice.ID)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("alice's matches = %d, want 2", len(matches))
	}

	matches, err = svc.GetMatches(bob.ID)
	if err != nil {
		t.Fatalf("GetMatches failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("bob's matches = %d, want 1", len(matches))
	}
}
