package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	handler := auditHandler(store.Events())
	ctx := context.Background()

	event := domain.NewBookingEvent(domain.EventBookingCreated, &domain.Booking{
		ID: 3, Reference: "ref-3", UserID: 1, OptionID: 2, NumSeats: 2, TotalPrice: 150000,
		Status: domain.BookingStatusConfirmed,
	}, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	msg := kafkaGo.Message{Key: []byte("ref-3"), Value: payload}
	require.NoError(t, handler(ctx, msg))
	require.NoError(t, handler(ctx, msg))
	require.NoError(t, handler(ctx, kafkaGo.Message{Value: []byte("{not json")}))

	stored := store.StoredEvents()
	require.Len(t, stored, 1)
	assert.Equal(t, "ref-3", stored[0].Reference)
	assert.Equal(t, domain.Money(150000), stored[0].TotalPrice)
}
