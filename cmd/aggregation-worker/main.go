package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/bsm/redislock"
	"github.com/mmdatafocus/donations_backend/config"
	"github.com/mmdatafocus/donations_backend/models"
	"github.com/mmdatafocus/donations_backend/utils"
	"github.com/mmdatafocus/donations_backend/workflow"
	"github.com/sirupsen/logrus"
)

const defaultTopic = "donor-aggregation"

func main() {
	logger := config.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	client, err := config.GetClient(ctx)
	if err != nil {
		config.LogError(logger, "aggregation-worker", "main", "Creating pubsub client", nil, err)
		os.Exit(1)
	}
	defer client.Close()

	topicName := os.Getenv("DONOR_AGGREGATION_TOPIC")
	if topicName == "" {
		topicName = defaultTopic
	}
	topic, err := config.CreateTopicIfNotExists(client, topicName)
	if err != nil {
		config.LogError(logger, "aggregation-worker", "main", "Creating topic", topicName, err)
		os.Exit(1)
	}
	subName := os.Getenv("DONOR_AGGREGATION_SUBSCRIPTION")
	if subName == "" {
		subName = topicName + "-worker"
	}
	sub, err := config.CreateSubscriptionIfNotExists(client, subName, topic)
	if err != nil {
		config.LogError(logger, "aggregation-worker", "main", "Creating subscription", subName, err)
		os.Exit(1)
	}
	// Recompute is a full replace per organization; no point processing the
	// same organization concurrently.
	sub.ReceiveSettings.MaxOutstandingMessages = 4

	callback := func(ctx context.Context, msg *pubsub.Message) {
		m := config.AggregationMessage{}
		if err := utils.UnmarshalFromJSON(msg.Data, &m); err != nil {
			config.LogError(logger, "aggregation-worker", "callback", "Unmarshaling pubsub message", msg.Data, err)
			msg.Ack() // malformed, redelivery will not help
			return
		}
		if m.OrganizationId == "" {
			msg.Ack()
			return
		}

		ctx = utils.SetOrganizationIdInContext(ctx, m.OrganizationId)
		ctx = utils.SetUserNameInContext(ctx, "AggregationWorker")
		if m.CorrelationId != "" {
			ctx = utils.SetCorrelationIdInContext(ctx, m.CorrelationId)
		}

		if err := recomputeOrganization(ctx, m.OrganizationId); err != nil {
			logger.WithFields(logrus.Fields{
				"field":           "AggregationWorker",
				"organization_id": m.OrganizationId,
				"reason":          m.Reason,
				"message_id":      msg.ID,
			}).Error("recompute failed: " + err.Error())
			msg.Nack()
			return
		}
		msg.Ack()
	}

	logger.WithFields(logrus.Fields{"topic": topicName, "subscription": subName}).Info("aggregation worker started")
	if err := sub.Receive(ctx, callback); err != nil {
		config.LogError(logger, "aggregation-worker", "main", "Failed to receive messages", nil, err)
		os.Exit(1)
	}
}

// recomputeOrganization serializes recomputes per organization through a redis
// lock so duplicate pubsub deliveries cannot interleave with each other.
func recomputeOrganization(ctx context.Context, organizationId string) error {
	locker := config.GetRedisLock()
	lock, err := locker.Obtain(ctx, "donor_aggregation_worker:"+organizationId, 60*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(500*time.Millisecond), 20),
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release(ctx)
	}()

	// Resolve the migrated flag once for both computes.
	migrated, err := models.IsMigratedOrganization(ctx, organizationId)
	if err != nil {
		return err
	}
	ctx = utils.SetOrganizationMigratedInContext(ctx, migrated)

	if err := workflow.ComputeOneTimeLeaderboard(ctx, organizationId); err != nil {
		return err
	}
	return workflow.ComputeRecurringLeaderboard(ctx, organizationId)
}
