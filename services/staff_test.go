package services

import (
	"errors"
	"testing"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
)

func TestAccessRequestApprovalAwardsCredits(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()
	setBalance(t, member.ID, 10, 0, 10)

	request, err := svc.CreateAccessRequest(staff.ID, member.ID, 50, "loyalty reward")
	if err != nil {
		t.Fatalf("CreateAccessRequest failed: %v", err)
	}
	if request.Status != models.RequestPending {
		t.Errorf("status = %s, want pending", request.Status)
	}

	// Filing alone must not move the balance.
	if accountBalance(t, member.ID).TotalCredits() != 10 {
		t.Error("balance changed before approval")
	}

	if err := svc.ApproveAccessRequest(request.ID, admin.ID); err != nil {
		t.Fatalf("ApproveAccessRequest failed: %v", err)
	}

	account := accountBalance(t, member.ID)
	if account.ComplimentaryCredits != 60 {
		t.Errorf("complimentary after award = %d, want 60", account.ComplimentaryCredits)
	}

	var reloaded models.CreditAccessRequest
	config.DB.First(&reloaded, request.ID)
	if reloaded.Status != models.RequestApproved {
		t.Errorf("status = %s, want approved", reloaded.Status)
	}
	if reloaded.ReviewedBy == nil || *reloaded.ReviewedBy != admin.ID {
		t.Errorf("reviewed_by = %v, want %d", reloaded.ReviewedBy, admin.ID)
	}

	// Approving twice must not award twice.
	if err := svc.ApproveAccessRequest(request.ID, admin.ID); !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("double approve err = %v, want ErrRequestNotPending", err)
	}
	if accountBalance(t, member.ID).ComplimentaryCredits != 60 {
		t.Error("double approval awarded twice")
	}
}

func TestAccessRequestDenialLeavesBalance(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()
	setBalance(t, member.ID, 10, 0, 10)

	request, err := svc.CreateAccessRequest(staff.ID, member.ID, 50, "reward")
	if err != nil {
		t.Fatalf("CreateAccessRequest failed: %v", err)
	}

	if err := svc.DenyAccessRequest(request.ID, admin.ID); err != nil {
		t.Fatalf("DenyAccessRequest failed: %v", err)
	}

	if accountBalance(t, member.ID).TotalCredits() != 10 {
		t.Error("denied request changed the balance")
	}

	var reloaded models.CreditAccessRequest
	config.DB.First(&reloaded, request.ID)
	if reloaded.Status != models.RequestDenied {
		t.Errorf("status = %s, want denied", reloaded.Status)
	}

	// A denied request cannot be approved afterwards.
	if err := svc.ApproveAccessRequest(request.ID, admin.ID); !errors.Is(err, ErrRequestNotPending) {
		t.Errorf("approve after deny err = %v, want ErrRequestNotPending", err)
	}
}

func TestAccessRequestValidation(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()

	if _, err := svc.CreateAccessRequest(staff.ID, member.ID, 0, "nothing"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount err = %v, want ErrInvalidAmount", err)
	}
	if _, err := svc.CreateAccessRequest(staff.ID, 99999, 10, "ghost"); err == nil {
		t.Error("request for missing user accepted")
	}
}

func TestResettlementClawback(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()
	setBalance(t, member.ID, 10, 30, 0)

	request, err := svc.CreateResettlementRequest(staff.ID, member.ID, -25, "duplicate charge refund reversal")
	if err != nil {
		t.Fatalf("CreateResettlementRequest failed: %v", err)
	}

	if err := svc.ApproveResettlementRequest(request.ID, admin.ID); err != nil {
		t.Fatalf("ApproveResettlementRequest failed: %v", err)
	}

	account := accountBalance(t, member.ID)
	if account.TotalCredits() != 15 {
		t.Errorf("balance after clawback = %d, want 15", account.TotalCredits())
	}
}

func TestResettlementGrant(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()
	setBalance(t, member.ID, 0, 0, 0)

	request, err := svc.CreateResettlementRequest(staff.ID, member.ID, 40, "lost session compensation")
	if err != nil {
		t.Fatalf("CreateResettlementRequest failed: %v", err)
	}
	if err := svc.ApproveResettlementRequest(request.ID, admin.ID); err != nil {
		t.Fatalf("ApproveResettlementRequest failed: %v", err)
	}

	if accountBalance(t, member.ID).ComplimentaryCredits != 40 {
		t.Errorf("balance = %d, want 40", accountBalance(t, member.ID).ComplimentaryCredits)
	}
}

func TestResettlementClawbackExceedingBalanceAborts(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()
	setBalance(t, member.ID, 5, 0, 0)

	request, err := svc.CreateResettlementRequest(staff.ID, member.ID, -50, "oversized clawback")
	if err != nil {
		t.Fatalf("CreateResettlementRequest failed: %v", err)
	}

	err = svc.ApproveResettlementRequest(request.ID, admin.ID)
	if !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("err = %v, want ErrInsufficientCredits", err)
	}

	// The aborted approval leaves the request pending and the balance intact.
	var reloaded models.CreditResettlementRequest
	config.DB.First(&reloaded, request.ID)
	if reloaded.Status != models.RequestPending {
		t.Errorf("status = %s, want pending", reloaded.Status)
	}
	if accountBalance(t, member.ID).TotalCredits() != 5 {
		t.Error("failed clawback changed the balance")
	}
}

func TestResettlementZeroAmountRejected(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()

	if _, err := svc.CreateResettlementRequest(staff.ID, member.ID, 0, "noop"); !errors.Is(err, ErrZeroAdjustment) {
		t.Errorf("err = %v, want ErrZeroAdjustment", err)
	}
}

func TestPendingRequestListings(t *testing.T) {
	setupTestDB(t)
	staff := createTestUser(t, "agent@dates.care", models.RoleStaff)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewStaffService()

	first, _ := svc.CreateAccessRequest(staff.ID, member.ID, 10, "one")
	if _, err := svc.CreateAccessRequest(staff.ID, member.ID, 20, "two"); err != nil {
		t.Fatalf("CreateAccessRequest failed: %v", err)
	}
	if err := svc.DenyAccessRequest(first.ID, admin.ID); err != nil {
		t.Fatalf("DenyAccessRequest failed: %v", err)
	}

	pending, err := svc.PendingAccessRequests()
	if err != nil {
		t.Fatalf("PendingAccessRequests failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}

	mine, err := svc.AccessRequestsByStaff(staff.ID)
	if err != nil {
		t.Fatalf("AccessRequestsByStaff failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("staff's requests = %d, want 2", len(mine))
	}
}
