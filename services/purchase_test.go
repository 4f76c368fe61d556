package services

import (
	"testing"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/shopspring/decimal"
)

func seedPackage(t *testing.T, code string, price string, credits, bonus, kobos int, pkgType models.PackageType) *models.CreditPackage {
	t.Helper()

	priceUSD, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	pkg := models.CreditPackage{
		Code:     code,
		Name:     code,
		PriceUSD: priceUSD,
		Credits:  credits,
		Bonus:    bonus,
		Kobos:    kobos,
		Type:     pkgType,
		IsActive: true,
	}
	if err := config.DB.Create(&pkg).Error; err != nil {
		t.Fatalf("failed to seed package: %v", err)
	}
	return &pkg
}

func TestRegisterPurchaseGrantsPackageContents(t *testing.T) {
	setupTestDB(t)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	pkg := seedPackage(t, "combo", "24.99", 200, 25, 120, models.PackageTypeCombo)
	svc := NewPurchaseService()
	setBalance(t, member.ID, 10, 0, 10)

	purchase, err := svc.RegisterPurchase(member.ID, admin.ID, pkg.ID, "cash", "front desk")
	if err != nil {
		t.Fatalf("RegisterPurchase failed: %v", err)
	}
	if purchase.Reference == "" {
		t.Error("purchase reference not assigned")
	}
	if !purchase.PricePaidUSD.Equal(pkg.PriceUSD) {
		t.Errorf("price snapshot = %s, want %s", purchase.PricePaidUSD, pkg.PriceUSD)
	}

	account := accountBalance(t, member.ID)
	if account.PurchasedCredits != 200 {
		t.Errorf("purchased = %d, want 200", account.PurchasedCredits)
	}
	if account.ComplimentaryCredits != 35 {
		t.Errorf("complimentary = %d, want 35 (10 bonus + 25 package bonus)", account.ComplimentaryCredits)
	}
	if account.Kobos != 130 {
		t.Errorf("kobos = %d, want 130", account.Kobos)
	}
}

func TestRegisterPurchaseUnknownPackage(t *testing.T) {
	setupTestDB(t)
	admin := createTestUser(t, "boss@dates.care", models.RoleAdmin)
	member := createTestUser(t, "member@example.com", models.RoleMember)
	svc := NewPurchaseService()

	if _, err := svc.RegisterPurchase(member.ID, admin.ID, 999, "cash", ""); err == nil {
		t.Error("purchase of missing package accepted")
	}
}

func TestListPackagesOrdersByPrice(t *testing.T) {
	setupTestDB(t)
	seedPackage(t, "premium", "19.99", 240, 35, 0, models.PackageTypeCredits)
	seedPackage(t, "starter", "4.99", 50, 0, 0, models.PackageTypeCredits)
	inactive := seedPackage(t, "legacy", "1.99", 10, 0, 0, models.PackageTypeCredits)
	config.DB.Model(inactive).Update("is_active", false)

	svc := NewPurchaseService()
	packages, err := svc.ListPackages()
	if err != nil {
		t.Fatalf("ListPackages failed: %v", err)
	}
	if len(packages) != 2 {
		t.Fatalf("package count = %d, want 2", len(packages))
	}
	if packages[0].Code != "starter" || packages[1].Code != "premium" {
		t.Errorf("order = [%s, %s], want [starter, premium]", packages[0].Code, packages[1].Code)
	}
}
