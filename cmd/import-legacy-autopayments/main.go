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
	organizationID := flag.String("organization-id", "", "Organization to import legacy autopayments for (required)")
	file := flag.String("file", "", "Path to a JSON array of legacy autopayment rows (required)")
	recompute := flag.Bool("recompute", true, "Recompute donor snapshots after import")
	flag.Parse()

	if strings.TrimSpace(*organizationID) == "" || strings.TrimSpace(*file) == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}
	var rows []*models.LegacyAutopayment
	if err := utils.UnmarshalFromJSON(raw, &rows); err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", *file, err)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	orgID := strings.TrimSpace(*organizationID)
	if err := workflow.ImportLegacyAutopayments(ctx, orgID, rows); err != nil {
		fmt.Fprintf(os.Stderr, "organization %s: import failed: %v\n", orgID, err)
		os.Exit(1)
	}
	fmt.Printf("organization %s: imported %d legacy autopayment rows\n", orgID, len(rows))

	if *recompute {
		if err := workflow.ComputeRecurringLeaderboard(ctx, orgID); err != nil {
			fmt.Fprintf(os.Stderr, "organization %s: recurring leaderboard recompute failed: %v\n", orgID, err)
			os.Exit(1)
		}
		fmt.Printf("organization %s: recurring snapshots recomputed\n", orgID)
	}
}
