package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
// Keeping it in a tiny package avoids import cycles (config <-> utils).
type ContextKey string

func (c ContextKey) String() string { return string(c) }

const (
	ContextKeyOrganizationId ContextKey = "organization_id"
	ContextKeyUserName       ContextKey = "user_name"
	ContextKeyCorrelationId  ContextKey = "correlation_id"

	// ContextKeyOrganizationMigrated carries the resolved migrated flag so it
	// is looked up once per request, not per call.
	ContextKeyOrganizationMigrated ContextKey = "organization_migrated"

	ContextKeyIsAdmin         ContextKey = "is_admin"
	ContextKeySkipTenantScope ContextKey = "skip_tenant_scope"
)

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func GetBool(ctx context.Context, key ContextKey) (bool, bool) {
	v, ok := ctx.Value(key).(bool)
	return v, ok
}
