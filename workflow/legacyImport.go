package workflow

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"github.com/mmdatafocus/donations_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var legacyImportValidate = validator.New()

// ImportLegacyAutopayments consumes the migration pipeline's output for one
// organization: validates the rows and replaces the organization's imported
// set in one transaction. The migration itself is orchestrated elsewhere;
// only its output lands here.
func ImportLegacyAutopayments(ctx context.Context, organizationId string, rows []*models.LegacyAutopayment) error {
	logger := config.GetLogger()

	for i, row := range rows {
		row.OrganizationId = organizationId
		if err := legacyImportValidate.Struct(row); err != nil {
			config.LogError(logger, "legacyImport.go", "ImportLegacyAutopayments", "Validate", utils.ProcessValidationErrors(err), err)
			return fmt.Errorf("legacy autopayment row %d is invalid: %w", i, err)
		}
		// Legacy phone data is frequently junk; flag it but keep the row.
		if row.PhoneNumber != "" {
			if err := utils.ValidatePhoneNumber(row.PhoneNumber, utils.CountryCode); err != nil {
				logger.WithFields(logrus.Fields{
					"organization_id":  organizationId,
					"subscription_key": row.SubscriptionKey,
				}).Warn("legacy autopayment has an implausible phone number")
			}
		}
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", organizationId).
			Delete(&models.LegacyAutopayment{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return err
	}

	// The import usually lands alongside the migration cutover flipping the
	// organization's migrated flag; drop the cached row so readers see it.
	if err := models.InvalidateOrganizationCache(organizationId); err != nil {
		config.LogError(logger, "legacyImport.go", "ImportLegacyAutopayments", "InvalidateOrganizationCache", organizationId, err)
	}
	return nil
}
