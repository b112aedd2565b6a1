package donorapi

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"

	"cloud.google.com/go/pubsub"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"github.com/mmdatafocus/donations_backend/utils"
	"github.com/mmdatafocus/donations_backend/workflow"
	"gorm.io/gorm"
)

// Handlers expose the aggregation library over JSON. Request validation and
// authorization for the wider application live in front of this service;
// here a missing organization is the only not-found condition surfaced.

func resolveOrganizationID(c *gin.Context) (string, error) {
	organizationId := strings.TrimSpace(c.Param("organization_id"))
	if organizationId == "" {
		return "", errors.New("organization id is required")
	}
	return organizationId, nil
}

func pageParams(c *gin.Context) (page int, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(models.DefaultPerPage)))
	return page, perPage
}

// SponsorsHandler serves the one-time sponsor leaderboard.
// Migrated organizations read the precomputed snapshot (top order); everyone
// else, and any "recent" request, is computed live.
func SponsorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationId, err := resolveOrganizationID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := utils.SetOrganizationIdInContext(c.Request.Context(), organizationId)

		sortMode := models.ParseLeaderboardSort(c.DefaultQuery("sort", string(models.LeaderboardSortTop)))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultPerPage)))

		migrated, err := models.IsMigratedOrganization(ctx, organizationId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx = utils.SetOrganizationMigratedInContext(ctx, migrated)

		if migrated && sortMode == models.LeaderboardSortTop {
			rows, err := workflow.GetOneTimeLeaderboard(ctx, organizationId, limit)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			data := make([]workflow.SponsorAggregate, 0, len(rows))
			for _, row := range rows {
				data = append(data, workflow.SponsorAggregate{
					DonorLabel:      row.DonorLabel,
					TotalAmount:     row.TotalAmount,
					PaymentsCount:   row.PaymentsCount,
					LatestPaymentAt: row.LatestPaymentAt,
				})
			}
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}

		aggregates, err := workflow.LiveOneTimeLeaderboard(ctx, organizationId, sortMode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if limit < 1 {
			limit = models.DefaultPerPage
		}
		if limit > models.LeaderboardMaxPerPage {
			limit = models.LeaderboardMaxPerPage
		}
		if len(aggregates) > limit {
			aggregates = aggregates[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"data": aggregates})
	}
}

// RecurringSponsorsHandler serves the recurring leaderboard from the
// snapshot, paginated.
func RecurringSponsorsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationId, err := resolveOrganizationID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := utils.SetOrganizationIdInContext(c.Request.Context(), organizationId)

		page, perPage := pageParams(c)
		result, err := workflow.GetRecurringLeaderboard(ctx, organizationId, page, perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// AutopaymentsHandler serves the live autopayment listing.
func AutopaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationId, err := resolveOrganizationID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := utils.SetOrganizationIdInContext(c.Request.Context(), organizationId)

		filters := workflow.AutopaymentFilters{}
		if period := models.RecurringPeriod(strings.ToLower(strings.TrimSpace(c.Query("recurring_period")))); period != "" {
			if !period.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring_period"})
				return
			}
			filters.RecurringPeriod = period
		}

		page, perPage := pageParams(c)
		result, err := workflow.ListAutopayments(ctx, organizationId, page, perPage, filters)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RecomputeHandler queues a snapshot recompute for one organization by
// publishing to the aggregation topic. The worker picks it up; replace is
// idempotent, so duplicate delivery is harmless.
func RecomputeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		organizationId, err := resolveOrganizationID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx := c.Request.Context()

		if _, err := utils.FetchSingleModel[models.Organization](ctx, organizationId); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}

		client, err := config.GetClient(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		topicName := os.Getenv("DONOR_AGGREGATION_TOPIC")
		if topicName == "" {
			topicName = "donor-aggregation"
		}
		topic, err := config.CreateTopicIfNotExists(client, topicName)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		msg := config.AggregationMessage{
			OrganizationId: organizationId,
			Reason:         "api",
			CorrelationId:  correlationId,
		}
		payload, err := utils.MarshalToJSON(msg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if _, err := topic.Publish(ctx, &pubsub.Message{Data: []byte(payload)}).Get(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true, "organization_id": organizationId})
	}
}
