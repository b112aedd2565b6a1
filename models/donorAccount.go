package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/donations_backend/config"
)

// DonorAccount is a registered platform user a donation may be linked to.
// Its current display name outranks whatever name was stored on the
// donation at payment time.
type DonorAccount struct {
	Id          int       `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"size:255" json:"display_name"`
	Email       string    `gorm:"size:255;index" json:"email"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DonorAccountNames resolves current display names for a set of account ids.
func DonorAccountNames(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	db := config.GetDB()
	var accounts []*DonorAccount
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for _, account := range accounts {
		names[account.Id] = account.DisplayName
	}
	return names, nil
}
