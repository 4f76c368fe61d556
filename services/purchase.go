package services

import (
	"errors"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseService records completed package purchases and grants their
// contents. Payment processing happens outside this system; an admin
// registers the result.
type PurchaseService struct {
	creditService *CreditService
}

func NewPurchaseService() *PurchaseService {
	return &PurchaseService{
		creditService: NewCreditService(),
	}
}

func (s *PurchaseService) ListPackages() ([]models.CreditPackage, error) {
	var packages []models.CreditPackage
	err := config.DB.Where("is_active = ?", true).
		Order("price_usd ASC").
		Find(&packages).Error
	return packages, err
}

// RegisterPurchase creates the purchase record and grants the package's
// credits (purchased pool), bonus (complimentary) and kobos atomically.
func (s *PurchaseService) RegisterPurchase(userID, adminID, packageID uint, paymentMethod, notes string) (*models.PackagePurchase, error) {
	var pkg models.CreditPackage
	if err := config.DB.Where("id = ? AND is_active = ?", packageID, true).First(&pkg).Error; err != nil {
		return nil, errors.New("package not found")
	}

	purchase := models.PackagePurchase{
		Reference:     uuid.NewString(),
		UserID:        userID,
		AdminID:       adminID,
		PackageID:     pkg.ID,
		PricePaidUSD:  pkg.PriceUSD,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		description := "Package purchase: " + pkg.Name
		if pkg.Credits > 0 {
			if err := s.creditService.AddCreditsTx(tx, userID, pkg.Credits, description, true); err != nil {
				return err
			}
		}
		if pkg.Bonus > 0 {
			if err := s.creditService.AddCreditsTx(tx, userID, pkg.Bonus, "Package bonus: "+pkg.Name, false); err != nil {
				return err
			}
		}
		if pkg.Kobos > 0 {
			if err := s.creditService.AddKobosTx(tx, userID, pkg.Kobos, description); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *PurchaseService) GetPurchaseHistory(userID uint) ([]models.PackagePurchase, error) {
	var purchases []models.PackagePurchase
	err := config.DB.Preload("Package").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (s *PurchaseService) GetAllPurchases() ([]models.PackagePurchase, error) {
	var purchases []models.PackagePurchase
	err := config.DB.Preload("User").Preload("Admin").Preload("Package").
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
