package consumer

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/errors"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/events"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lifecycle"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/lock"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/log"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/metrics"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/scheduler"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/storage"
	"github.com/senzing-garage/data-mart-replicator-sub007/pkg/types"
	"github.com/rs/zerolog"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Projector is the callback invoked once per decoded ChangeEvent, with
// the event's ResourceKeys already acquired by the scheduler. It is the
// consumer's only contact point with the data mart.
type Projector func(ctx context.Context, event *types.ChangeEvent) error

// Config holds the options needed to construct a Consumer.
type Config struct {
	Brokers     []string
	Topic       string
	GroupID     string
	DataDir     string // offset checkpoint database location
	QueueSize   int
	AcquireWait lock.Wait
}

// Consumer reads entity-resolution change events from Kafka, derives one
// or more lock.ResourceKeys per event, and submits a scheduler.WorkItem
// that acquires those keys before running the Projector. Offsets commit
// from inside the WorkItem's Run, only after the Projector has returned
// successfully.
type Consumer struct {
	cfg         Config
	client      *kgo.Client
	scheduler   *scheduler.Scheduler
	offsets     storage.OffsetStore
	project     Projector
	logger      zerolog.Logger
	machine     *lifecycle.Machine
	eventBroker *events.Broker
}

// New returns a Consumer wired to lockService for lock gating and
// project for per-event work. offsets is used as passed in, already
// open; the Kafka client is opened in Start, not here, so construction
// never fails.
func New(cfg Config, lockService lock.Service, offsets storage.OffsetStore, project Projector) *Consumer {
	return &Consumer{
		cfg:         cfg,
		scheduler:   scheduler.New(lockService, cfg.QueueSize),
		offsets:     offsets,
		project:     project,
		logger:      log.WithComponent("consumer"),
		machine:     lifecycle.NewMachine(),
		eventBroker: events.NewBroker(),
	}
}

// State reports the consumer's own lifecycle state.
func (c *Consumer) State() lifecycle.State {
	return c.machine.State()
}

// Events returns the consumer's event broker, so admin tooling can
// subscribe to lock/change/work-item occurrences without coupling to
// the consumer's internals.
func (c *Consumer) Events() *events.Broker {
	return c.eventBroker
}

// Start opens the Kafka client, starts the internal scheduler, and
// begins the poll loop on a background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	err := c.machine.Init(func() error {
		client, clientErr := kgo.NewClient(
			kgo.SeedBrokers(c.cfg.Brokers...),
			kgo.ConsumeTopics(c.cfg.Topic),
			kgo.ConsumerGroup(c.cfg.GroupID),
			kgo.DisableAutoCommit(),
		)
		if clientErr != nil {
			return fmt.Errorf("failed to construct kafka client: %w", clientErr)
		}
		c.client = client
		c.eventBroker.Start()
		return c.scheduler.Start()
	})
	if err != nil {
		return errors.NewSetupError("consumer", err)
	}
	if activateErr := c.machine.Activate(); activateErr != nil {
		return errors.NewSetupError("consumer", activateErr)
	}

	go c.run(ctx)
	return nil
}

// Stop stops polling, drains the internal scheduler (waiting for every
// in-flight projection to finish and commit its offset), and closes the
// Kafka client.
func (c *Consumer) Stop() {
	c.machine.Destroy(func() {
		c.scheduler.Stop()
		if c.client != nil {
			c.client.Close()
		}
		c.eventBroker.Stop()
	})
}

func (c *Consumer) run(ctx context.Context) {
	for c.machine.IsAvailable() {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("fetch error")
		})

		fetches.EachRecord(func(record *kgo.Record) {
			c.handleRecord(ctx, record)
		})
	}
}

func (c *Consumer) handleRecord(ctx context.Context, record *kgo.Record) {
	metrics.ChangeEventsConsumed.WithLabelValues(record.Topic).Inc()

	var event types.ChangeEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		c.logger.Error().Err(err).Str("topic", record.Topic).Int32("partition", record.Partition).
			Int64("offset", record.Offset).Msg("failed to decode change event, skipping")
		return
	}

	keys, err := resourceKeysFor(&event)
	if err != nil {
		c.logger.Error().Err(err).Str("event_id", event.EventID).Msg("failed to derive resource keys, skipping")
		return
	}

	workItemID := event.EventID
	if workItemID == "" {
		// Upstream producers are expected to stamp an event id, but a
		// scheduler work item always needs one for logging/metrics.
		workItemID = uuid.New().String()
	}

	c.eventBroker.Publish(&events.Event{
		ID:      workItemID,
		Type:    events.EventChangeReceived,
		Message: "change event received",
		Metadata: map[string]string{
			"entity_id": event.EntityID,
			"topic":     record.Topic,
		},
	})

	rec := record
	submitErr := c.scheduler.Submit(&scheduler.WorkItem{
		ID:   workItemID,
		Keys: keys,
		Wait: c.cfg.AcquireWait,
		Run: func(ctx context.Context) error {
			if projectErr := c.project(ctx, &event); projectErr != nil {
				c.eventBroker.Publish(&events.Event{
					ID:      workItemID,
					Type:    events.EventWorkItemFailed,
					Message: projectErr.Error(),
				})
				return projectErr
			}
			if commitErr := c.client.CommitRecords(ctx, rec); commitErr != nil {
				c.eventBroker.Publish(&events.Event{
					ID:      workItemID,
					Type:    events.EventWorkItemFailed,
					Message: commitErr.Error(),
				})
				return commitErr
			}
			// Mirrored locally so operators can inspect consumer
			// progress without querying the broker's commit log.
			if storeErr := c.offsets.CommitOffset(rec.Topic, rec.Partition, rec.Offset+1); storeErr != nil {
				c.logger.Error().Err(storeErr).Str("event_id", event.EventID).Msg("failed to mirror offset locally")
			}
			c.eventBroker.Publish(&events.Event{
				ID:      workItemID,
				Type:    events.EventChangeCommitted,
				Message: "change event projected and committed",
				Metadata: map[string]string{
					"entity_id": event.EntityID,
				},
			})
			return nil
		},
	})
	if submitErr != nil {
		c.logger.Error().Err(submitErr).Str("event_id", event.EventID).Msg("failed to submit work item")
	}
}

// resourceKeysFor derives one ResourceKey for the event's own entity and
// one for each entity it affects (e.g. a merge), so a merge and a
// concurrent update to either side can never interleave their
// projections.
func resourceKeysFor(event *types.ChangeEvent) ([]*lock.ResourceKey, error) {
	keys := make([]*lock.ResourceKey, 0, 1+len(event.AffectedEntityIDs))

	primary, err := lock.NewResourceKey("ENTITY", event.EntityID)
	if err != nil {
		return nil, err
	}
	keys = append(keys, primary)

	for _, id := range event.AffectedEntityIDs {
		key, keyErr := lock.NewResourceKey("ENTITY", id)
		if keyErr != nil {
			return nil, keyErr
		}
		keys = append(keys, key)
	}
	return keys, nil
}
