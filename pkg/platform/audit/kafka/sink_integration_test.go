//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	platformkafka "crivo/internal/platform/kafka"
	id "crivo/pkg/domain"
	audit "crivo/pkg/platform/audit"
	auditkafka "crivo/pkg/platform/audit/kafka"
	"crivo/pkg/platform/audit/store/memory"
	"crivo/pkg/testutil/containers"
)

const testTopic = "crivo.audit.events"

type SinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
	producer *platformkafka.Producer
}

func TestSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SinkSuite))
}

func (s *SinkSuite) SetupSuite() {
	s.redpanda = containers.NewRedpandaContainer(s.T())
	s.Require().NoError(s.redpanda.CreateTopic(context.Background(), testTopic))

	var err error
	s.producer, err = platformkafka.NewProducer([]string{s.redpanda.Broker}, nil)
	s.Require().NoError(err)
}

func (s *SinkSuite) TearDownSuite() {
	s.producer.Close()
	_ = s.redpanda.Container.Terminate(context.Background())
}

func (s *SinkSuite) TestAppendFansOutToKafka() {
	ctx := context.Background()

	inner := memory.NewInMemoryStore()
	sink := auditkafka.NewSink(inner, s.producer, testTopic)

	proposalID := id.NewProposalID()
	event := audit.Event{
		Category:   audit.CategoryCompliance,
		Timestamp:  time.Now().UTC(),
		ProposalID: proposalID,
		Action:     string(audit.EventCreditAnalyzed),
		Actor:      "SYSTEM",
		Decision:   "approved",
	}
	s.Require().NoError(sink.Append(ctx, event))

	s.Run("event lands in the inner store", func() {
		events, err := sink.ListByProposal(ctx, proposalID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventCreditAnalyzed), events[0].Action)
	})

	s.Run("event is consumable from the topic", func() {
		consumer, err := kgo.NewClient(
			kgo.SeedBrokers(s.redpanda.Broker),
			kgo.ConsumeTopics(testTopic),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		)
		s.Require().NoError(err)
		defer consumer.Close()

		fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		fetches := consumer.PollFetches(fetchCtx)
		s.Require().NoError(fetches.Err())

		records := fetches.Records()
		s.Require().NotEmpty(records)

		var payload struct {
			ProposalID string `json:"proposal_id"`
			Action     string `json:"action"`
			Decision   string `json:"decision"`
		}
		s.Require().NoError(json.Unmarshal(records[len(records)-1].Value, &payload))
		s.Equal(proposalID.String(), payload.ProposalID)
		s.Equal(string(audit.EventCreditAnalyzed), payload.Action)
		s.Equal("approved", payload.Decision)
		s.Equal(proposalID.String(), string(records[len(records)-1].Key))
	})
}
