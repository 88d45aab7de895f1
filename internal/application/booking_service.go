package application

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/booking"
	hotelDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	petDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/pet"
	roomDomain "github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/room"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/events"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/kafka"
)

// ReserveRequest holds the data needed to reserve a room. Dates are dd/mm/yyyy.
type ReserveRequest struct {
	HotelID       int64
	RoomID        int64
	PetID         int64
	StartDate     string
	EndDate       string
	PaymentMethod string
	Proof         *media.Upload
}

// UpdateBookingRequest carries the fields to change. Zero values are left alone.
type UpdateBookingRequest struct {
	ID            int64
	RoomID        int64
	PetID         int64
	StartDate     string
	EndDate       string
	PaymentMethod string
	Proof         *media.Upload
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	HotelID       int64     `json:"hotel_id"`
	RoomID        int64     `json:"room_id"`
	PetID         int64     `json:"pet_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	PaymentMethod string    `json:"payment_method"`
	PaymentProof  string    `json:"payment_proof,omitempty"`
	State         string    `json:"state"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingStatsDTO holds booking counts per state (admin).
type BookingStatsDTO struct {
	Total   int64            `json:"total"`
	ByState map[string]int64 `json:"by_state"`
}

// BookingService coordinates the booking workflow across users, hotels,
// rooms, pets, the booking store and the payment proof store.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	users     UserFinder
	hotels    hotelDomain.HotelRepository
	rooms     roomDomain.RoomRepository
	pets      petDomain.PetRepository
	proofs    MediaStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	users UserFinder,
	hotels hotelDomain.HotelRepository,
	rooms roomDomain.RoomRepository,
	pets petDomain.PetRepository,
	proofs MediaStore,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		users:     users,
		hotels:    hotels,
		rooms:     rooms,
		pets:      pets,
		proofs:    proofs,
		publisher: publisher,
		logger:    logger,
	}
}

// Reserve books a room for the actor's pet. The booking starts out waiting.
func (s *BookingService) Reserve(ctx context.Context, actor Actor, req ReserveRequest) (string, error) {
	if actor.IsAnonymous() {
		return "", domain.NewUnauthorizedError("login is required to reserve a room")
	}
	if _, err := s.users.FindByID(ctx, actor.ID); err != nil {
		return "", err
	}
	if _, err := s.hotels.FindByID(ctx, req.HotelID); err != nil {
		return "", err
	}
	room, err := s.rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		return "", err
	}
	if !room.BelongsTo(req.HotelID) {
		return "", domain.NewNotFoundError(domain.KindRoomNotFound, "room", req.RoomID)
	}
	if !room.IsEmpty() {
		return "", domain.NewError(domain.KindRoomNotAvailable,
			fmt.Sprintf("room %s is %s", room.RoomNumber(), room.Status()))
	}
	if _, err := s.pets.FindByID(ctx, req.PetID); err != nil {
		return "", err
	}

	start, err := bookingDomain.ParseDate("start date", req.StartDate)
	if err != nil {
		return "", err
	}
	end, err := bookingDomain.ParseDate("end date", req.EndDate)
	if err != nil {
		return "", err
	}

	var proof string
	if req.Proof != nil {
		proof, err = s.proofs.Store(ctx, *req.Proof)
		if err != nil {
			return "", err
		}
	}

	bk, err := bookingDomain.NewBooking(actor.ID, req.HotelID, req.RoomID, req.PetID, start, end, req.PaymentMethod, proof)
	if err != nil {
		s.discardProof(ctx, proof)
		return "", err
	}
	if err := s.repo.Save(ctx, bk); err != nil {
		s.discardProof(ctx, proof)
		return "", fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking reserved",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("user_id", actor.ID),
		zap.Int64("room_id", bk.RoomID()),
	)
	s.publishEvent(ctx, events.BookingReserved, events.BookingReservedEvent{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		PetID:         bk.PetID(),
		StartDate:     bk.StartDate().Format(bookingDomain.DateLayout),
		EndDate:       bk.EndDate().Format(bookingDomain.DateLayout),
		PaymentMethod: bk.PaymentMethod(),
		OccurredAt:    time.Now().UTC(),
	})

	return fmt.Sprintf("Wait for the approval of booking number %d", bk.ID()), nil
}

// ConsiderBooking overwrites the state of one of the hotel's bookings.
// Completing a booking also records it in the service history.
func (s *BookingService) ConsiderBooking(ctx context.Context, actor Actor, id int64, state string) (string, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return "", err
	}
	next, err := bookingDomain.ParseState(state)
	if err != nil {
		return "", domain.NewValidationError(err.Error())
	}
	if err := s.consider(ctx, bk, next); err != nil {
		return "", err
	}
	return considerMessage(bk.ID(), next), nil
}

// ApproveVerifiedPayment approves a booking whose payment proof was verified
// by the payment service. Only waiting bookings are approved; for any other
// state the booking is left alone and false is returned.
func (s *BookingService) ApproveVerifiedPayment(ctx context.Context, id int64) (bool, error) {
	bk, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}
	if !bk.IsWaiting() {
		s.logger.Info("verified payment ignored, booking is no longer waiting",
			zap.Int64("booking_id", bk.ID()),
			zap.String("state", bk.State().String()),
		)
		return false, nil
	}
	if err := s.consider(ctx, bk, bookingDomain.StateApproved); err != nil {
		return false, err
	}
	return true, nil
}

func (s *BookingService) consider(ctx context.Context, bk *bookingDomain.Booking, next bookingDomain.State) error {
	previous := bk.State()
	bk.Consider(next)
	bk.IncrementVersion()

	if next == bookingDomain.StateCompleted {
		history := bookingDomain.NewServiceHistory(bk)
		if err := s.repo.RecordCompletion(ctx, bk, history); err != nil {
			return err
		}
		s.logger.Info("service history recorded",
			zap.Int64("booking_id", bk.ID()),
			zap.Int64("history_id", history.ID()),
		)
	} else if err := s.repo.Update(ctx, bk); err != nil {
		return err
	}

	s.logger.Info("booking considered",
		zap.Int64("booking_id", bk.ID()),
		zap.String("from", previous.String()),
		zap.String("to", next.String()),
	)
	s.publishEvent(ctx, events.BookingStateChanged, events.BookingStateChangedEvent{
		BookingID:     bk.ID(),
		HotelID:       bk.HotelID(),
		UserID:        bk.UserID(),
		PreviousState: previous.String(),
		State:         next.String(),
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}

func considerMessage(id int64, state bookingDomain.State) string {
	switch state {
	case bookingDomain.StateApproved:
		return fmt.Sprintf("Booking No. %d has been approved.", id)
	case bookingDomain.StateDisapproved:
		return fmt.Sprintf("Booking No. %d has been disapproved.", id)
	case bookingDomain.StateCompleted:
		return fmt.Sprintf("Completed No.%d Booking service.", id)
	case bookingDomain.StateCancelled:
		return fmt.Sprintf("Booking No.%d has been cancelled.", id)
	default:
		return fmt.Sprintf("Booking No. %d is waiting for approval.", id)
	}
}

// UpdateBooking edits one of the owner's waiting bookings.
func (s *BookingService) UpdateBooking(ctx context.Context, actor Actor, req UpdateBookingRequest) (string, error) {
	bk, err := s.findFor(ctx, actor, req.ID, auth.RoleOwner)
	if err != nil {
		return "", err
	}
	if !bk.IsWaiting() {
		return "", domain.NewError(domain.KindUpdateFailed,
			fmt.Sprintf("booking %d is %s and can no longer be updated", bk.ID(), bk.State()))
	}

	if req.RoomID != 0 && req.RoomID != bk.RoomID() {
		room, err := s.rooms.FindByID(ctx, req.RoomID)
		if err != nil {
			return "", err
		}
		if !room.BelongsTo(bk.HotelID()) {
			return "", domain.NewNotFoundError(domain.KindRoomNotFound, "room", req.RoomID)
		}
		if !room.IsEmpty() {
			return "", domain.NewError(domain.KindRoomNotAvailable,
				fmt.Sprintf("room %s is %s", room.RoomNumber(), room.Status()))
		}
		if err := bk.ChangeRoom(room.ID()); err != nil {
			return "", err
		}
	}
	if req.PetID != 0 {
		pet, err := s.pets.FindByID(ctx, req.PetID)
		if err != nil {
			return "", err
		}
		if err := bk.ChangePet(pet.ID()); err != nil {
			return "", err
		}
	}
	if req.StartDate != "" {
		start, err := bookingDomain.ParseDate("start date", req.StartDate)
		if err != nil {
			return "", err
		}
		if err := bk.ChangeStartDate(start); err != nil {
			return "", err
		}
	}
	if req.EndDate != "" {
		end, err := bookingDomain.ParseDate("end date", req.EndDate)
		if err != nil {
			return "", err
		}
		if err := bk.ChangeEndDate(end); err != nil {
			return "", err
		}
	}
	if req.PaymentMethod != "" && req.PaymentMethod != bk.PaymentMethod() {
		if err := bk.ChangePaymentMethod(req.PaymentMethod); err != nil {
			return "", err
		}
	}

	var stored, replaced string
	if req.Proof != nil {
		if err := bk.CheckProofAllowed(); err != nil {
			return "", err
		}
		stored, err = s.proofs.Store(ctx, *req.Proof)
		if err != nil {
			return "", err
		}
		if replaced, err = bk.AttachPaymentProof(stored); err != nil {
			s.discardProof(ctx, stored)
			return "", err
		}
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		s.discardProof(ctx, stored)
		return "", err
	}
	s.discardProof(ctx, replaced)

	s.logger.Info("booking updated", zap.Int64("booking_id", bk.ID()))
	s.publishEvent(ctx, events.BookingUpdated, events.BookingUpdatedEvent{
		BookingID:     bk.ID(),
		RoomID:        bk.RoomID(),
		PetID:         bk.PetID(),
		StartDate:     bk.StartDate().Format(bookingDomain.DateLayout),
		EndDate:       bk.EndDate().Format(bookingDomain.DateLayout),
		PaymentMethod: bk.PaymentMethod(),
		ProofAttached: bk.HasPaymentProof(),
		OccurredAt:    time.Now().UTC(),
	})

	return fmt.Sprintf("Update booking No.%d completed.", bk.ID()), nil
}

// CancelBooking marks a booking cancelled whatever its current state. The
// owner who made it or the hotel it was made with may cancel.
func (s *BookingService) CancelBooking(ctx context.Context, actor Actor, id int64) (string, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleOwner, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return "", err
	}

	bk.Cancel()
	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return "", err
	}

	s.logger.Info("booking cancelled", zap.Int64("booking_id", bk.ID()))
	s.publishEvent(ctx, events.BookingCancelled, events.BookingCancelledEvent{
		BookingID:  bk.ID(),
		HotelID:    bk.HotelID(),
		UserID:     bk.UserID(),
		OccurredAt: time.Now().UTC(),
	})

	return fmt.Sprintf("Booking No.%d has been cancelled.", bk.ID()), nil
}

// DeleteBooking removes the payment proof file, then the booking. When the
// file cannot be removed the booking is left intact.
func (s *BookingService) DeleteBooking(ctx context.Context, actor Actor, id int64) (string, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return "", err
	}

	if bk.HasPaymentProof() {
		if err := s.proofs.Delete(ctx, bk.PaymentProof()); err != nil {
			return "", err
		}
	}
	if err := s.repo.Delete(ctx, bk.ID()); err != nil {
		return "", err
	}

	s.logger.Info("booking deleted", zap.Int64("booking_id", bk.ID()))
	s.publishEvent(ctx, events.BookingDeleted, events.BookingDeletedEvent{
		BookingID:  bk.ID(),
		HotelID:    bk.HotelID(),
		OccurredAt: time.Now().UTC(),
	})

	return "Booking deleted", nil
}

// GetBooking returns one booking visible to the actor.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, id int64) (*BookingDTO, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleOwner, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBooking returns the actor's hotel bookings in one state.
func (s *BookingService) ListBooking(ctx context.Context, actor Actor, state string) ([]BookingDTO, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return nil, err
	}
	st, err := bookingDomain.ParseState(state)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bookings, err := s.repo.FindByHotelAndState(ctx, hotel.ID(), st)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.NewError(domain.KindNotFound,
			fmt.Sprintf("no %s bookings for hotel %d", st, hotel.ID()))
	}
	return toBookingDTOs(bookings), nil
}

// AllListBooking returns every booking of the actor's hotel.
func (s *BookingService) AllListBooking(ctx context.Context, actor Actor) ([]BookingDTO, error) {
	hotel, err := s.resolveHotel(ctx, actor)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindByHotel(ctx, hotel.ID())
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, domain.NewError(domain.KindNotFound, fmt.Sprintf("no bookings for hotel %d", hotel.ID()))
	}
	return toBookingDTOs(bookings), nil
}

// GetPaymentProof opens the booking's payment proof for streaming.
func (s *BookingService) GetPaymentProof(ctx context.Context, actor Actor, id int64) (*FileDTO, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleOwner, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if !bk.HasPaymentProof() {
		return nil, domain.NewError(domain.KindFileMissing, fmt.Sprintf("booking %d has no payment proof", bk.ID()))
	}

	content, size, contentType, err := s.proofs.Retrieve(ctx, bk.PaymentProof())
	if err != nil {
		return nil, err
	}
	return &FileDTO{Name: bk.PaymentProof(), Content: content, Size: size, ContentType: contentType}, nil
}

// GetPaymentProofURL returns the stored location of the booking's payment proof.
func (s *BookingService) GetPaymentProofURL(ctx context.Context, actor Actor, id int64) (string, error) {
	bk, err := s.findFor(ctx, actor, id, auth.RoleOwner, auth.RoleHotel, auth.RoleAdmin)
	if err != nil {
		return "", err
	}
	if !bk.HasPaymentProof() {
		return "", domain.NewError(domain.KindFileMissing, fmt.Sprintf("booking %d has no payment proof", bk.ID()))
	}
	return s.proofs.Path(bk.PaymentProof()), nil
}

// ListAllBookings returns all bookings with pagination (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns booking counts per state (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByState(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{Total: total, ByState: counts}, nil
}

func (s *BookingService) find(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	if id == 0 {
		return nil, domain.NewValidationError("booking id is required")
	}
	return s.repo.FindByID(ctx, id)
}

// findFor loads a booking on behalf of the actor. The actor's role must be
// one of roles. Owners reach only the bookings they made and hotels only the
// bookings made with them.
func (s *BookingService) findFor(ctx context.Context, actor Actor, id int64, roles ...string) (*bookingDomain.Booking, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("login is required")
	}
	if !slices.Contains(roles, actor.Role) {
		return nil, domain.NewForbiddenError(fmt.Sprintf("role %q may not perform this booking operation", actor.Role))
	}
	bk, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
		return bk, nil
	case auth.RoleOwner:
		if bk.UserID() == actor.ID {
			return bk, nil
		}
	case auth.RoleHotel:
		if bk.HotelID() == actor.ID {
			return bk, nil
		}
	}
	return nil, domain.NewForbiddenError("booking does not belong to this account")
}

func (s *BookingService) resolveHotel(ctx context.Context, actor Actor) (*hotelDomain.Hotel, error) {
	if actor.IsAnonymous() {
		return nil, domain.NewUnauthorizedError("hotel login is required")
	}
	return s.hotels.FindByID(ctx, actor.ID)
}

// discardProof removes a proof file that is no longer referenced. Failures are only logged.
func (s *BookingService) discardProof(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.proofs.Delete(ctx, name); err != nil {
		s.logger.Warn("failed to remove payment proof",
			zap.String("file", name),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		UserID:        bk.UserID(),
		HotelID:       bk.HotelID(),
		RoomID:        bk.RoomID(),
		PetID:         bk.PetID(),
		StartDate:     bk.StartDate().Format(bookingDomain.DateLayout),
		EndDate:       bk.EndDate().Format(bookingDomain.DateLayout),
		PaymentMethod: bk.PaymentMethod(),
		PaymentProof:  bk.PaymentProof(),
		State:         bk.State().String(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
