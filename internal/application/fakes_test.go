package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/hotel"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/pet"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/room"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/kafka"
)

// --- bookings ---

type fakeBookingRepo struct {
	nextID    int64
	bookings  map[int64]*booking.Booking
	histories []*booking.ServiceHistory
	saveErr   error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[int64]*booking.Booking{}}
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.UserID(), b.HotelID(), b.RoomID(), b.PetID(),
		b.StartDate(), b.EndDate(),
		b.PaymentMethod(), b.PaymentProof(),
		b.State(), b.Version(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id int64) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindBookingNotFound, "booking", id)
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) FindByHotel(_ context.Context, hotelID int64) ([]*booking.Booking, error) {
	return r.filter(func(b *booking.Booking) bool { return b.HotelID() == hotelID }), nil
}

func (r *fakeBookingRepo) FindByHotelAndState(_ context.Context, hotelID int64, state booking.State) ([]*booking.Booking, error) {
	return r.filter(func(b *booking.Booking) bool { return b.HotelID() == hotelID && b.State() == state }), nil
}

func (r *fakeBookingRepo) CountActiveByRoom(_ context.Context, roomID int64) (int64, error) {
	return int64(len(r.filter(func(b *booking.Booking) bool { return b.RoomID() == roomID && b.State().IsActive() }))), nil
}

func (r *fakeBookingRepo) Save(_ context.Context, b *booking.Booking) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.nextID++
	b.AssignID(r.nextID)
	r.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	stored, ok := r.bookings[b.ID()]
	if !ok || stored.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified")
	}
	r.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) RecordCompletion(ctx context.Context, b *booking.Booking, h *booking.ServiceHistory) error {
	if err := r.Update(ctx, b); err != nil {
		return err
	}
	h.AssignID(int64(len(r.histories) + 1))
	r.histories = append(r.histories, h)
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.bookings[id]; !ok {
		return domain.NewNotFoundError(domain.KindBookingNotFound, "booking", id)
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	all := r.filter(func(*booking.Booking) bool { return true })
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *fakeBookingRepo) CountByState(_ context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, b := range r.bookings {
		counts[b.State().String()]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) filter(keep func(*booking.Booking) bool) []*booking.Booking {
	var out []*booking.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// --- users ---

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*user.User
	finds  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*user.User{}}
}

func (r *fakeUserRepo) add(u *user.User) *user.User {
	r.nextID++
	u.AssignID(r.nextID)
	r.users[u.ID()] = u
	return u
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.finds++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindUserNotFound, "user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username() == username {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError(domain.KindUserNotFound, "user", username)
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *user.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.NewNotFoundError(domain.KindUserNotFound, "user", id)
	}
	delete(r.users, id)
	return nil
}

type mapUserCache struct {
	users map[int64]*user.User
}

func newMapUserCache() *mapUserCache { return &mapUserCache{users: map[int64]*user.User{}} }

func (c *mapUserCache) Get(_ context.Context, id int64) (*user.User, bool) {
	u, ok := c.users[id]
	return u, ok
}
func (c *mapUserCache) Set(_ context.Context, u *user.User) { c.users[u.ID()] = u }
func (c *mapUserCache) Delete(_ context.Context, id int64)  { delete(c.users, id) }

// --- hotels ---

type fakeHotelRepo struct {
	nextID int64
	hotels map[int64]*hotel.Hotel
}

func newFakeHotelRepo() *fakeHotelRepo {
	return &fakeHotelRepo{hotels: map[int64]*hotel.Hotel{}}
}

func (r *fakeHotelRepo) FindByID(_ context.Context, id int64) (*hotel.Hotel, error) {
	h, ok := r.hotels[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindHotelNotFound, "hotel", id)
	}
	return h, nil
}

func (r *fakeHotelRepo) FindByEmail(_ context.Context, email string) (*hotel.Hotel, error) {
	for _, h := range r.hotels {
		if h.Email() == email {
			return h, nil
		}
	}
	return nil, domain.NewNotFoundError(domain.KindHotelNotFound, "hotel", email)
}

func (r *fakeHotelRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeHotelRepo) Save(_ context.Context, h *hotel.Hotel) error {
	r.nextID++
	h.AssignID(r.nextID)
	r.hotels[h.ID()] = h
	return nil
}

// --- rooms ---

type fakeRoomRepo struct {
	nextID int64
	rooms  map[int64]*room.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[int64]*room.Room{}}
}

func (r *fakeRoomRepo) FindByID(_ context.Context, id int64) (*room.Room, error) {
	rm, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindRoomNotFound, "room", id)
	}
	return rm, nil
}

func (r *fakeRoomRepo) FindByHotel(_ context.Context, hotelID int64) ([]*room.Room, error) {
	var out []*room.Room
	for _, rm := range r.rooms {
		if rm.HotelID() == hotelID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) FindByHotelAndStatus(ctx context.Context, hotelID int64, status room.Status) ([]*room.Room, error) {
	all, _ := r.FindByHotel(ctx, hotelID)
	var out []*room.Room
	for _, rm := range all {
		if rm.Status() == status {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) ExistsByHotelAndNumber(_ context.Context, hotelID int64, number string) (bool, error) {
	for _, rm := range r.rooms {
		if rm.HotelID() == hotelID && rm.RoomNumber() == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoomRepo) Save(_ context.Context, rm *room.Room) error {
	r.nextID++
	rm.AssignID(r.nextID)
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *fakeRoomRepo) Update(_ context.Context, rm *room.Room) error {
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *fakeRoomRepo) Delete(_ context.Context, id int64) error {
	delete(r.rooms, id)
	return nil
}

type fakePhotoRepo struct {
	nextID  int64
	photos  map[int64]*room.Photo
	saveErr error
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: map[int64]*room.Photo{}}
}

func (r *fakePhotoRepo) Save(_ context.Context, p *room.Photo) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.nextID++
	p.AssignID(r.nextID)
	r.photos[p.ID()] = p
	return nil
}

func (r *fakePhotoRepo) FindByID(_ context.Context, id int64) (*room.Photo, error) {
	p, ok := r.photos[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindNotFound, "room photo", id)
	}
	return p, nil
}

func (r *fakePhotoRepo) FindByRoomID(_ context.Context, roomID int64) ([]*room.Photo, error) {
	var out []*room.Photo
	for _, p := range r.photos {
		if p.RoomID() == roomID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (r *fakePhotoRepo) FindByFilename(_ context.Context, name string) (*room.Photo, error) {
	for _, p := range r.photos {
		if p.Filename() == name {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError(domain.KindNotFound, "room photo", name)
}

func (r *fakePhotoRepo) Delete(_ context.Context, id int64) error {
	delete(r.photos, id)
	return nil
}

func (r *fakePhotoRepo) DeleteByRoomID(_ context.Context, roomID int64) error {
	for id, p := range r.photos {
		if p.RoomID() == roomID {
			delete(r.photos, id)
		}
	}
	return nil
}

// --- pets ---

type fakePetRepo struct {
	nextID int64
	pets   map[int64]*pet.Pet
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{pets: map[int64]*pet.Pet{}}
}

func (r *fakePetRepo) FindByID(_ context.Context, id int64) (*pet.Pet, error) {
	p, ok := r.pets[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindPetNotFound, "pet", id)
	}
	return p, nil
}

func (r *fakePetRepo) FindByOwnerID(_ context.Context, ownerID int64) ([]*pet.Pet, error) {
	var out []*pet.Pet
	for _, p := range r.pets {
		if p.OwnerID() == ownerID && p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePetRepo) Save(_ context.Context, p *pet.Pet) error {
	r.nextID++
	p.AssignID(r.nextID)
	r.pets[p.ID()] = p
	return nil
}

func (r *fakePetRepo) Update(_ context.Context, p *pet.Pet) error {
	r.pets[p.ID()] = p
	return nil
}

func (r *fakePetRepo) Delete(_ context.Context, id int64) error {
	delete(r.pets, id)
	return nil
}

// --- events ---

type fakePublisher struct {
	events []kafka.CloudEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errBroker = errors.New("broker unavailable")

func testDate() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
