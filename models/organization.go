package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/donations_backend/appctx"
	"github.com/mmdatafocus/donations_backend/config"
)

const organizationCacheLifespan = time.Hour

type Organization struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Name           string    `gorm:"size:255" json:"name"`
	CurrencySymbol string    `gorm:"size:8" json:"currency_symbol"`
	Timezone       string    `gorm:"size:64" json:"timezone"`
	IsMigrated     bool      `json:"is_migrated"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Symbol returns the display currency symbol, defaulting to kyats.
func (o *Organization) Symbol() string {
	if o.CurrencySymbol == "" {
		return "Ks"
	}
	return o.CurrencySymbol
}

func organizationCacheKey(organizationId string) string {
	return "organization:" + organizationId
}

// GetOrganizationById fetches an organization, redis first, then db.
// (may return RecordNotFound error)
func GetOrganizationById(ctx context.Context, organizationId string) (*Organization, error) {
	var organization Organization
	redisKey := organizationCacheKey(organizationId)
	exists, err := config.GetRedisObject(redisKey, &organization)
	if err != nil {
		return nil, err
	}
	if exists {
		return &organization, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).First(&organization, "id = ?", organizationId).Error; err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(redisKey, &organization, organizationCacheLifespan); err != nil {
		return nil, err
	}
	return &organization, nil
}

// InvalidateOrganizationCache drops the cached organization row. Called when
// an out-of-band write (legacy import cutover) may have flipped flags the
// cache would otherwise serve stale for up to an hour.
func InvalidateOrganizationCache(organizationId string) error {
	return config.RemoveRedisKey(organizationCacheKey(organizationId))
}

// IsMigratedOrganization resolves the migrated flag. Entry points that
// already resolved the organization seed the flag into the context
// (utils.SetOrganizationMigratedInContext) so nested calls skip the lookup.
func IsMigratedOrganization(ctx context.Context, organizationId string) (bool, error) {
	if migrated, ok := ctx.Value(appctx.ContextKeyOrganizationMigrated).(bool); ok {
		return migrated, nil
	}
	organization, err := GetOrganizationById(ctx, organizationId)
	if err != nil {
		return false, err
	}
	return organization.IsMigrated, nil
}
