package services

import (
	"errors"
	"testing"
	"time"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
)

func newTestChatService() *ChatBillingService {
	svc := NewChatBillingService()
	// Keep the billing goroutine idle; tests drive BillMinute directly.
	svc.tickInterval = time.Hour
	return svc
}

func TestStartSessionPrepaysFirstMinute(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 10, 0, 10)

	session, err := svc.StartSession(user.ID, partner.ID, models.SessionVideo)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	defer svc.EndSession(session.ID, 0)

	account := accountBalance(t, user.ID)
	if account.Kobos != 7 {
		t.Errorf("kobos after first minute = %d, want 7", account.Kobos)
	}
	if account.TotalCredits() != 10 {
		t.Errorf("credits touched while kobos remain: %d", account.TotalCredits())
	}

	var reloaded models.CallSession
	config.DB.First(&reloaded, session.ID)
	if reloaded.BilledMinutes != 1 {
		t.Errorf("billed minutes = %d, want 1", reloaded.BilledMinutes)
	}
	if reloaded.LastTickAt == nil {
		t.Error("last tick not recorded")
	}
}

func TestStartSessionEmptyWalletRejected(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 0, 0, 0)

	_, err := svc.StartSession(user.ID, partner.ID, models.SessionVideo)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// The failed session must not stay active.
	var active int64
	config.DB.Model(&models.CallSession{}).
		Where("user_id = ? AND status = ?", user.ID, models.CallActive).
		Count(&active)
	if active != 0 {
		t.Errorf("active sessions after failed start = %d, want 0", active)
	}
}

func TestBillMinuteIsIdempotent(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 10, 0, 10)

	session, err := svc.StartSession(user.ID, partner.ID, models.SessionText)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	defer svc.EndSession(session.ID, 0)

	before := accountBalance(t, user.ID)

	// Replaying an already-billed minute must not charge again.
	if err := svc.BillMinute(session.ID, 1); err != nil {
		t.Fatalf("replayed BillMinute failed: %v", err)
	}

	after := accountBalance(t, user.ID)
	if after.Kobos != before.Kobos || after.TotalCredits() != before.TotalCredits() {
		t.Errorf("replay changed balance: %+v -> %+v", before, after)
	}

	var reloaded models.CallSession
	config.DB.First(&reloaded, session.ID)
	if reloaded.BilledMinutes != 1 {
		t.Errorf("billed minutes after replay = %d, want 1", reloaded.BilledMinutes)
	}

	// A new minute index charges normally.
	if err := svc.BillMinute(session.ID, 2); err != nil {
		t.Fatalf("BillMinute(2) failed: %v", err)
	}
	account := accountBalance(t, user.ID)
	if account.Kobos != 8 {
		t.Errorf("kobos after minute 2 = %d, want 8", account.Kobos)
	}

	var ticks int64
	config.DB.Model(&models.BillingTick{}).Where("session_id = ?", session.ID).Count(&ticks)
	if ticks != 2 {
		t.Errorf("tick rows = %d, want 2", ticks)
	}
}

func TestBillMinuteInsufficientFunds(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 0, 0, 3)

	session, err := svc.StartSession(user.ID, partner.ID, models.SessionVideo)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	defer svc.EndSession(session.ID, 0)

	err = svc.BillMinute(session.ID, 2)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestEndSessionStopsBilling(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 100, 0, 100)

	session, err := svc.StartSession(user.ID, partner.ID, models.SessionAudio)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if err := svc.EndSession(session.ID, user.ID); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	var reloaded models.CallSession
	config.DB.First(&reloaded, session.ID)
	if reloaded.Status != models.CallEnded {
		t.Errorf("status = %s, want ended", reloaded.Status)
	}
	if reloaded.EndedAt == nil {
		t.Error("ended_at not set")
	}

	// Billing an ended session is refused.
	if err := svc.BillMinute(session.ID, 2); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("BillMinute on ended session err = %v, want ErrSessionEnded", err)
	}
	// So is a second end.
	if err := svc.EndSession(session.ID, user.ID); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("double EndSession err = %v, want ErrSessionEnded", err)
	}
}

func TestEndSessionOwnershipCheck(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	stranger := createTestUser(t, "stranger@example.com", models.RoleMember)
	svc := newTestChatService()
	setBalance(t, user.ID, 100, 0, 100)

	session, err := svc.StartSession(user.ID, partner.ID, models.SessionText)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	defer svc.EndSession(session.ID, 0)

	if err := svc.EndSession(session.ID, stranger.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stranger EndSession err = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.GetSession(session.PublicID, stranger.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stranger GetSession err = %v, want ErrSessionNotFound", err)
	}
}

func TestSweepStaleSessions(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "member@example.com", models.RoleMember)
	partner := createTestUser(t, "partner@example.com", models.RoleMember)
	svc := newTestChatService()

	staleTick := time.Now().Add(-5 * time.Minute)
	stale := models.CallSession{
		PublicID: "stale-session", UserID: user.ID, PartnerID: partner.ID,
		Kind: models.SessionText, Status: models.CallActive,
		StartedAt: time.Now().Add(-10 * time.Minute), LastTickAt: &staleTick,
	}
	fresh := models.CallSession{
		PublicID: "fresh-session", UserID: user.ID, PartnerID: partner.ID,
		Kind: models.SessionText, Status: models.CallActive,
		StartedAt: time.Now(),
	}
	if err := config.DB.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed stale session: %v", err)
	}
	if err := config.DB.Create(&fresh).Error; err != nil {
		t.Fatalf("failed to seed fresh session: %v", err)
	}

	ended, err := svc.SweepStaleSessions()
	if err != nil {
		t.Fatalf("SweepStaleSessions failed: %v", err)
	}
	if ended != 1 {
		t.Errorf("ended = %d, want 1", ended)
	}

	var reloadedStale models.CallSession
	if err := config.DB.First(&reloadedStale, stale.ID).Error; err != nil {
		t.Fatalf("failed to reload stale session: %v", err)
	}
	if reloadedStale.Status != models.CallEnded {
		t.Errorf("stale session status = %s, want ended", reloadedStale.Status)
	}

	var reloadedFresh models.CallSession
	if err := config.DB.First(&reloadedFresh, fresh.ID).Error; err != nil {
		t.Fatalf("failed to reload fresh session: %v", err)
	}
	if reloadedFresh.Status != models.CallActive {
		t.Errorf("fresh session status = %s, want active", reloadedFresh.Status)
	}
}

func TestChatMinuteCostTable(t *testing.T) {
	cases := map[models.SessionType]int{
		models.SessionText:  1,
		models.SessionAudio: 2,
		models.SessionVideo: 3,
	}
	for kind, want := range cases {
		got, err := ChatMinuteCost(kind)
		if err != nil {
			t.Errorf("ChatMinuteCost(%s) failed: %v", kind, err)
			continue
		}
		if got != want {
			t.Errorf("ChatMinuteCost(%s) = %d, want %d", kind, got, want)
		}
	}

	if _, err := ChatMinuteCost(models.SessionType("carrier-pigeon")); err == nil {
		t.Error("ChatMinuteCost accepted unknown kind")
	}
}
