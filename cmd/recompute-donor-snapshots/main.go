package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"github.com/mmdatafocus/donations_backend/utils"
	"github.com/mmdatafocus/donations_backend/workflow"
)

func main() {
	organizationID := flag.String("organization-id", "", "Optional: recompute only one organization. If empty, recomputes all organizations.")
	flag.Parse()

	ctx := context.Background()
	// Explicit DB connect (config no longer connects DB in init()).
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	// Ensure schema is up-to-date (creates snapshot tables if missing).
	models.MigrateTable()

	var organizations []models.Organization
	orgQuery := db.WithContext(ctx).Model(&models.Organization{})
	if strings.TrimSpace(*organizationID) != "" {
		orgQuery = orgQuery.Where("id = ?", strings.TrimSpace(*organizationID))
	}
	if err := orgQuery.Find(&organizations).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list organizations: %v\n", err)
		os.Exit(1)
	}
	if len(organizations) == 0 {
		fmt.Fprintln(os.Stderr, "no organizations found to recompute")
		return
	}

	failures := 0
	for _, org := range organizations {
		// The org row is already in hand; seed the flag so the computes skip
		// their own lookup.
		orgCtx := utils.SetOrganizationMigratedInContext(ctx, org.IsMigrated)
		if err := workflow.ComputeOneTimeLeaderboard(orgCtx, org.ID); err != nil {
			fmt.Fprintf(os.Stderr, "organization %s: one-time leaderboard: %v\n", org.ID, err)
			failures++
			continue
		}
		if err := workflow.ComputeRecurringLeaderboard(orgCtx, org.ID); err != nil {
			fmt.Fprintf(os.Stderr, "organization %s: recurring leaderboard: %v\n", org.ID, err)
			failures++
			continue
		}
		fmt.Printf("organization %s: snapshots recomputed\n", org.ID)
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d organization(s) failed\n", failures)
		os.Exit(1)
	}
}
