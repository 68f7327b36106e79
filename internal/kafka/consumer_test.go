package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingEvent(t *testing.T) {
	sent := domain.BookingEvent{
		Type:       domain.EventBookingCreated,
		Reference:  "6a1f",
		BookingID:  3,
		OptionID:   9,
		UserID:     1,
		NumSeats:   2,
		TotalPrice: 1100000,
		Status:     string(domain.BookingStatusConfirmed),
		OccurredAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(sent)
	require.NoError(t, err)

	got, err := DecodeBookingEvent(kafka.Message{Value: payload})
	require.NoError(t, err)
	assert.Equal(t, sent, got)

	_, err = DecodeBookingEvent(kafka.Message{Value: []byte("{"), Offset: 17})
	assert.ErrorContains(t, err, "offset 17")
}

func TestNewProducerAndConsumer(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"})
	assert.NotNil(t, p)
	assert.NoError(t, p.Close())

	var nilConsumer *Consumer
	assert.NoError(t, nilConsumer.Close())
}
