package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upSeedCreditPackages, downSeedCreditPackages)
}

func upSeedCreditPackages(tx *sql.Tx) error {
	packages := []struct {
		code    string
		name    string
		price   string
		credits int
		bonus   int
		kobos   int
		pkgType string
		popular bool
	}{
		{"starter", "Starter Pack", "4.99", 50, 0, 0, "credits", false},
		{"plus", "Plus Pack", "9.99", 110, 10, 0, "credits", true},
		{"premium", "Premium Pack", "19.99", 240, 35, 0, "credits", false},
		{"kobo-100", "Kobo Bundle", "7.99", 0, 0, 100, "kobos", false},
		{"combo", "Combo Pack", "24.99", 200, 25, 120, "combo", false},
	}

	for _, pkg := range packages {
		var count int
		err := tx.QueryRow("SELECT COUNT(*) FROM credit_packages WHERE code = $1", pkg.code).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check existing package %s: %w", pkg.code, err)
		}

		if count == 0 {
			query := `
				INSERT INTO credit_packages (code, name, price_usd, credits, bonus, kobos, type, popular, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, NOW(), NOW())
			`
			_, err = tx.Exec(query, pkg.code, pkg.name, pkg.price, pkg.credits, pkg.bonus, pkg.kobos, pkg.pkgType, pkg.popular)
			if err != nil {
				return fmt.Errorf("failed to create package %s: %w", pkg.code, err)
			}
		}
	}

	return nil
}

func downSeedCreditPackages(tx *sql.Tx) error {
	query := "DELETE FROM credit_packages WHERE code IN ('starter', 'plus', 'premium', 'kobo-100', 'combo')"
	_, err := tx.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to delete seeded packages: %w", err)
	}

	return nil
}
