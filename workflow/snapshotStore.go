package workflow

import (
	"context"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"gorm.io/gorm"
)

// The snapshot tables are owned exclusively by this package. Replace is
// all-or-nothing per organization: delete everything, insert the new set,
// inside one transaction serialized by an advisory lock. Readers observe
// either the old or the new snapshot, never a mix. An empty new set is a
// valid terminal state (the delete still happens).
//
// GET_LOCK is connection-scoped, and releasing it before the transaction
// commits would let a second writer interleave with the commit. The lock is
// therefore taken on a pinned connection and released only after the
// transaction on that same connection has committed.

func ReplaceSponsorSnapshots(ctx context.Context, organizationId string, rows []*models.SponsorSnapshot) error {
	db := config.GetDB()
	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := AcquireOrganizationAggregationLock(conn, organizationId); err != nil {
			return err
		}
		defer ReleaseOrganizationAggregationLock(conn, organizationId)
		return replaceSponsorSnapshotRows(conn, organizationId, rows)
	})
}

func replaceSponsorSnapshotRows(db *gorm.DB, organizationId string, rows []*models.SponsorSnapshot) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", organizationId).
			Delete(&models.SponsorSnapshot{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// GetSponsorSnapshots returns the one-time snapshot pre-sorted by total
// descending (label ascending on ties). Consumers re-slice for pagination,
// they do not re-sort.
func GetSponsorSnapshots(ctx context.Context, organizationId string) ([]*models.SponsorSnapshot, error) {
	return sponsorSnapshotRows(config.GetDB().WithContext(ctx), organizationId)
}

func sponsorSnapshotRows(db *gorm.DB, organizationId string) ([]*models.SponsorSnapshot, error) {
	var rows []*models.SponsorSnapshot
	err := db.
		Where("organization_id = ?", organizationId).
		Order("total_amount DESC, donor_label").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func ReplaceRecurringSponsorSnapshots(ctx context.Context, organizationId string, rows []*models.RecurringSponsorSnapshot) error {
	db := config.GetDB()
	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := AcquireOrganizationAggregationLock(conn, organizationId); err != nil {
			return err
		}
		defer ReleaseOrganizationAggregationLock(conn, organizationId)
		return replaceRecurringSponsorSnapshotRows(conn, organizationId, rows)
	})
}

func replaceRecurringSponsorSnapshotRows(db *gorm.DB, organizationId string, rows []*models.RecurringSponsorSnapshot) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("organization_id = ?", organizationId).
			Delete(&models.RecurringSponsorSnapshot{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func GetRecurringSponsorSnapshots(ctx context.Context, organizationId string) ([]*models.RecurringSponsorSnapshot, error) {
	return recurringSponsorSnapshotRows(config.GetDB().WithContext(ctx), organizationId)
}

func recurringSponsorSnapshotRows(db *gorm.DB, organizationId string) ([]*models.RecurringSponsorSnapshot, error) {
	var rows []*models.RecurringSponsorSnapshot
	err := db.
		Where("organization_id = ?", organizationId).
		Order("total_amount DESC, donor_label").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
