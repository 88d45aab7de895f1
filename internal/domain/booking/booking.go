package booking

import (
	"fmt"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// PaymentCash is the payment method an update may not attach a proof image to.
const PaymentCash = "cash payment"

// DateLayout is the dd/mm/yyyy format clients send booking dates in.
const DateLayout = "02/01/2006"

// ParseDate parses a dd/mm/yyyy date. No ordering between start and end is enforced.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("%s must be in dd/mm/yyyy format", field))
	}
	return t, nil
}

// Booking is the aggregate root for a pet-hotel stay.
type Booking struct {
	id            int64
	userID        int64
	hotelID       int64
	roomID        int64
	petID         int64
	startDate     time.Time
	endDate       time.Time
	paymentMethod string
	paymentProof  string
	state         State

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a booking in the waiting state. proof may be empty.
func NewBooking(
	userID, hotelID, roomID, petID int64,
	startDate, endDate time.Time,
	paymentMethod, proof string,
) (*Booking, error) {
	if userID == 0 {
		return nil, domain.NewValidationError("user ID is required")
	}
	if hotelID == 0 || roomID == 0 || petID == 0 {
		return nil, domain.NewValidationError("hotel, room and pet are required")
	}

	now := time.Now().UTC()
	return &Booking{
		userID:        userID,
		hotelID:       hotelID,
		roomID:        roomID,
		petID:         petID,
		startDate:     startDate,
		endDate:       endDate,
		paymentMethod: paymentMethod,
		paymentProof:  proof,
		state:         StateWaiting,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, userID, hotelID, roomID, petID int64,
	startDate, endDate time.Time,
	paymentMethod, paymentProof string,
	state State,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		hotelID:       hotelID,
		roomID:        roomID,
		petID:         petID,
		startDate:     startDate,
		endDate:       endDate,
		paymentMethod: paymentMethod,
		paymentProof:  paymentProof,
		state:         state,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() int64             { return b.id }
func (b *Booking) UserID() int64         { return b.userID }
func (b *Booking) HotelID() int64        { return b.hotelID }
func (b *Booking) RoomID() int64         { return b.roomID }
func (b *Booking) PetID() int64          { return b.petID }
func (b *Booking) StartDate() time.Time  { return b.startDate }
func (b *Booking) EndDate() time.Time    { return b.endDate }
func (b *Booking) PaymentMethod() string { return b.paymentMethod }
func (b *Booking) PaymentProof() string  { return b.paymentProof }
func (b *Booking) State() State          { return b.state }
func (b *Booking) Version() int64        { return b.version }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
func (b *Booking) HasPaymentProof() bool { return b.paymentProof != "" }
func (b *Booking) IsWaiting() bool       { return b.state == StateWaiting }
func (b *Booking) IsCashPayment() bool   { return b.paymentMethod == PaymentCash }

// AssignID sets the identifier generated by the store on insert.
func (b *Booking) AssignID(id int64) { b.id = id }

// --- Behavior ---

// Consider overwrites the state. Any state may follow any other.
func (b *Booking) Consider(state State) {
	b.state = state
	b.touch()
}

// Cancel marks the booking cancelled regardless of its current state.
func (b *Booking) Cancel() {
	b.state = StateCancelled
	b.touch()
}

// ChangeRoom moves a waiting booking to another room.
func (b *Booking) ChangeRoom(roomID int64) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	b.roomID = roomID
	b.touch()
	return nil
}

// ChangePet swaps the pet on a waiting booking.
func (b *Booking) ChangePet(petID int64) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	b.petID = petID
	b.touch()
	return nil
}

// ChangeStartDate sets the start date of a waiting booking.
func (b *Booking) ChangeStartDate(t time.Time) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	b.startDate = t
	b.touch()
	return nil
}

// ChangeEndDate sets the end date of a waiting booking.
func (b *Booking) ChangeEndDate(t time.Time) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	b.endDate = t
	b.touch()
	return nil
}

// ChangePaymentMethod is refused once a proof image is attached.
func (b *Booking) ChangePaymentMethod(method string) error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	if b.HasPaymentProof() {
		return domain.NewError(domain.KindPaymentMethodLocked,
			fmt.Sprintf("payment method of booking %d cannot change after proof was attached", b.id))
	}
	b.paymentMethod = method
	b.touch()
	return nil
}

// CheckProofAllowed reports whether a proof image may be attached.
func (b *Booking) CheckProofAllowed() error {
	if err := b.ensureEditable(); err != nil {
		return err
	}
	if b.IsCashPayment() {
		return domain.NewError(domain.KindWrongPaymentMethod,
			fmt.Sprintf("booking %d is paid in cash and takes no payment proof", b.id))
	}
	return nil
}

// AttachPaymentProof records a stored proof filename and returns the one it replaced.
func (b *Booking) AttachPaymentProof(filename string) (string, error) {
	if err := b.CheckProofAllowed(); err != nil {
		return "", err
	}
	previous := b.paymentProof
	b.paymentProof = filename
	b.touch()
	return previous, nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

func (b *Booking) ensureEditable() error {
	if !b.IsWaiting() {
		return domain.NewError(domain.KindUpdateFailed,
			fmt.Sprintf("booking %d is %s and can no longer be updated", b.id, b.state))
	}
	return nil
}

func (b *Booking) touch() {
	b.updatedAt = time.Now().UTC()
}
