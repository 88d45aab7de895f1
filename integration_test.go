//go:build integration

package main_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/cache"
	bookingDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/events"
)

// TestPaymentProofVerified_ApprovesBooking verifies that a payment.proof_verified
// event published to payment.events moves a waiting booking to "approved".
func TestPaymentProofVerified_ApprovesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupHotelStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ids := seedInventory(t, infra.DB)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := stack.Service.Reserve(ctx, application.Actor{ID: ids.UserID, Role: auth.RoleOwner}, application.ReserveRequest{
		HotelID:       ids.HotelID,
		RoomID:        ids.RoomID,
		PetID:         ids.PetID,
		StartDate:     "01/06/2025",
		EndDate:       "05/06/2025",
		PaymentMethod: "qr payment",
	})
	require.NoError(t, err)
	bookingID := latestBookingID(t, infra.DB, ids.UserID)

	reserved := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingReserved, 15*time.Second)
	var reservedEvt events.BookingReservedEvent
	require.NoError(t, reserved.ParseData(&reservedEvt))
	assert.Equal(t, bookingID, reservedEvt.BookingID)

	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	publishTestEvent(t, infra.KafkaBrokers, events.TopicPaymentEvents,
		"service-payment", events.PaymentProofVerified, events.PaymentProofVerifiedEvent{
			BookingID:   bookingID,
			PaymentID:   "pay-integration",
			AmountCents: 90000,
			VerifiedAt:  time.Now().UTC(),
		})

	model := waitForBookingState(t, infra.DB, bookingID, "approved", 15*time.Second)
	assert.Equal(t, int64(2), model.Version)

	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingStateChanged, 15*time.Second)
	var changed events.BookingStateChangedEvent
	require.NoError(t, ce.ParseData(&changed))
	assert.Equal(t, bookingID, changed.BookingID)
	assert.Equal(t, "waiting", changed.PreviousState)
	assert.Equal(t, "approved", changed.State)
}

// TestCompleteBooking_RecordsServiceHistory verifies that completing a booking
// writes exactly one service history row next to the state change.
func TestCompleteBooking_RecordsServiceHistory(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupHotelStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ids := seedInventory(t, infra.DB)
	ctx := context.Background()

	_, err := stack.Service.Reserve(ctx, application.Actor{ID: ids.UserID, Role: auth.RoleOwner}, application.ReserveRequest{
		HotelID:       ids.HotelID,
		RoomID:        ids.RoomID,
		PetID:         ids.PetID,
		StartDate:     "01/06/2025",
		EndDate:       "05/06/2025",
		PaymentMethod: "cash payment",
	})
	require.NoError(t, err)
	bookingID := latestBookingID(t, infra.DB, ids.UserID)

	msg, err := stack.Service.ConsiderBooking(ctx, application.Actor{ID: ids.HotelID, Role: auth.RoleHotel}, bookingID, "complete")
	require.NoError(t, err)
	assert.Contains(t, msg, "Completed No.")

	var count int64
	require.NoError(t, infra.DB.Model(&repository.ServiceHistoryModel{}).
		Where("booking_id = ?", bookingID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	waitForBookingState(t, infra.DB, bookingID, "completed", time.Second)
}

// TestBookingRepository_OptimisticLock verifies that a stale update is refused.
func TestBookingRepository_OptimisticLock(t *testing.T) {
	db, cleanup := setupPostgres(t)
	defer cleanup()

	ids := seedInventory(t, db)
	ctx := context.Background()
	repo := repository.NewGormBookingRepository(db)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	bk, err := bookingDomain.NewBooking(ids.UserID, ids.HotelID, ids.RoomID, ids.PetID,
		start, start.AddDate(0, 0, 4), "bank transfer", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, bk))
	bookingID := bk.ID()

	first, err := repo.FindByID(ctx, bookingID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, bookingID)
	require.NoError(t, err)

	first.Cancel()
	first.IncrementVersion()
	require.NoError(t, repo.Update(ctx, first))

	second.Cancel()
	second.IncrementVersion()
	err = repo.Update(ctx, second)
	assert.True(t, domain.IsKind(err, domain.KindConflict), "got %v", err)

	_, err = repo.FindByID(ctx, bookingID+1000)
	assert.True(t, domain.IsKind(err, domain.KindBookingNotFound))
}

// TestRedisUserCache_ReadThrough verifies that the user cache serves and evicts entries.
func TestRedisUserCache_ReadThrough(t *testing.T) {
	db, pgCleanup := setupPostgres(t)
	defer pgCleanup()
	client, redisCleanup := setupRedis(t)
	defer redisCleanup()

	ids := seedInventory(t, db)
	ctx := context.Background()
	userCache := cache.NewRedisUserCache(client, zap.NewNop())
	svc := application.NewUserService(repository.NewGormUserRepository(db), userCache, nil, zap.NewNop())

	u, err := svc.FindByID(ctx, ids.UserID)
	require.NoError(t, err)

	cached, ok := userCache.Get(ctx, ids.UserID)
	require.True(t, ok)
	assert.Equal(t, u.Username(), cached.Username())

	ttl, err := client.TTL(ctx, fmt.Sprintf("user:%d", ids.UserID)).Result()
	require.NoError(t, err)
	assert.InDelta(t, cache.UserTTL.Seconds(), ttl.Seconds(), 5)

	require.NoError(t, svc.Delete(ctx, application.Actor{ID: ids.UserID}))
	_, ok = userCache.Get(ctx, ids.UserID)
	assert.False(t, ok)
}
