package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"circustix/internal/reservations"
	"circustix/internal/shared/config"
	"circustix/pkg/logger"
)

func confirmedOrder() *reservations.Order {
	return &reservations.Order{
		ID:          "GBC-1730000000000-ABC123",
		ShowContext: "1-lv-p1",
		ShowTitle:   "Garden Bros Circus",
		Venue:       "Grand Arena, Las Vegas",
		Customer:    reservations.Customer{Name: "Ana Lopez", Email: "ana@example.com"},
		Seats: []reservations.OrderSeat{
			{SeatID: "bottom-center-r0-c0", Section: "Bottom Center", Row: "A", Number: 1, TicketType: "Adult", Price: 68.07},
			{SeatID: "bottom-center-r0-c1", Section: "Bottom Center", Row: "A", Number: 2, TicketType: "Adult", Price: 68.07},
		},
		Subtotal:   136.14,
		ServiceFee: 6.81,
		Total:      142.95,
		Status:     reservations.StatusPaid,
		CreatedAt:  time.Date(2024, 7, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherSendsOrderEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.OrderID != "GBC-1730000000000-ABC123" || event.Type != EventOrderConfirmed {
			return errors.New("unexpected event payload")
		}
		if len(event.SeatIDs) != 2 || !event.Durable {
			return errors.New("unexpected seats or durability")
		}
		return nil
	})

	pub := NewKafkaPublisherWithProducer(producer, DefaultKafkaProducerConfig(), logger.NewWithWriter(io.Discard, "error"))
	err := pub.PublishOrderEvent(context.Background(), NewOrderEvent(EventOrderConfirmed, confirmedOrder(), true))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherSurfacesSendErrors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, DefaultKafkaProducerConfig(), logger.NewWithWriter(io.Discard, "error"))
	err := pub.PublishOrderEvent(context.Background(), NewOrderEvent(EventOrderConfirmed, confirmedOrder(), true))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := NewKafkaPublisherWithProducer(producer, DefaultKafkaProducerConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.PublishOrderEvent(ctx, NewOrderEvent(EventOrderConfirmed, confirmedOrder(), true))
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestKafkaProducerConfig(t *testing.T) {
	pc := KafkaProducerConfigFrom(config.KafkaConfig{Brokers: []string{"k1:9092"}, OrderTopic: "orders"})
	assert.Equal(t, []string{"k1:9092"}, pc.Brokers)
	assert.Equal(t, "orders", pc.Topic)

	sc := pc.SaramaConfig()
	require.NoError(t, sc.Validate())
	assert.True(t, sc.Producer.Idempotent)
	assert.Equal(t, 1, sc.Net.MaxOpenRequests)
	assert.Equal(t, sarama.WaitForAll, sc.Producer.RequiredAcks)

	defaults := KafkaProducerConfigFrom(config.KafkaConfig{})
	assert.Equal(t, "orders.confirmed", defaults.Topic)
}
