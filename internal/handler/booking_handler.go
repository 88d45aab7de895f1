package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/response"
)

// BookingHandler handles HTTP requests for the booking workflow.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// reserveForm is the multipart body of a reservation. The proof image travels as "file".
type reserveForm struct {
	HotelID       int64  `form:"hotel_id" binding:"required"`
	RoomID        int64  `form:"room_id" binding:"required"`
	PetID         int64  `form:"pet_id" binding:"required"`
	StartDate     string `form:"start_date" binding:"required"`
	EndDate       string `form:"end_date" binding:"required"`
	PaymentMethod string `form:"payment_method" binding:"required"`
}

// updateBookingForm is the multipart body of a booking update. Empty fields are left alone.
type updateBookingForm struct {
	ID            int64  `form:"id" binding:"required"`
	RoomID        int64  `form:"room_id"`
	PetID         int64  `form:"pet_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	PaymentMethod string `form:"payment_method"`
}

type considerRequest struct {
	ID    int64  `form:"id" json:"id" binding:"required"`
	State string `form:"state" json:"state" binding:"required"`
}

type stateFilter struct {
	State string `form:"state" json:"state" binding:"required"`
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	ownerRole := middleware.RequireRole(auth.RoleOwner)
	hotelRole := middleware.RequireRole(auth.RoleHotel)

	bookings := r.Group("/booking")
	bookings.Use(authMW)
	{
		bookings.POST("/reserve", ownerRole, h.Reserve)
		bookings.POST("/list-booking", hotelRole, h.ListBooking)
		bookings.POST("/all-list-booking", hotelRole, h.AllListBooking)
		bookings.POST("/get-booking", h.GetBooking)
		bookings.POST("/consider-booking", hotelRole, h.ConsiderBooking)
		bookings.POST("/update-booking", ownerRole, h.UpdateBooking)
		bookings.POST("/cancel-booking", h.CancelBooking)
		bookings.POST("/delete-booking", hotelRole, h.DeleteBooking)
		bookings.GET("/get-image", h.GetImage)
		bookings.GET("/get-image-url", h.GetImageURL)
	}
}

// Reserve handles POST /booking/reserve.
func (h *BookingHandler) Reserve(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var form reserveForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	proof, err := optionalUpload(c, "file")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.Reserve(c.Request.Context(), actor, application.ReserveRequest{
		HotelID:       form.HotelID,
		RoomID:        form.RoomID,
		PetID:         form.PetID,
		StartDate:     form.StartDate,
		EndDate:       form.EndDate,
		PaymentMethod: form.PaymentMethod,
		Proof:         proof,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": msg})
}

// ListBooking handles POST /booking/list-booking.
func (h *BookingHandler) ListBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var filter stateFilter
	if err := c.ShouldBind(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ListBooking(c.Request.Context(), actor, filter.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AllListBooking handles POST /booking/all-list-booking.
func (h *BookingHandler) AllListBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.AllListBooking(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles POST /booking/get-booking?id=.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConsiderBooking handles POST /booking/consider-booking.
func (h *BookingHandler) ConsiderBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req considerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.ConsiderBooking(c.Request.Context(), actor, req.ID, req.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// UpdateBooking handles POST /booking/update-booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var form updateBookingForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	proof, err := optionalUpload(c, "file")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.service.UpdateBooking(c.Request.Context(), actor, application.UpdateBookingRequest{
		ID:            form.ID,
		RoomID:        form.RoomID,
		PetID:         form.PetID,
		StartDate:     form.StartDate,
		EndDate:       form.EndDate,
		PaymentMethod: form.PaymentMethod,
		Proof:         proof,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// CancelBooking handles POST /booking/cancel-booking?id=.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	msg, err := h.service.CancelBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// DeleteBooking handles POST /booking/delete-booking?id=.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	msg, err := h.service.DeleteBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// GetImage handles GET /booking/get-image?id= and streams the payment proof.
func (h *BookingHandler) GetImage(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	file, err := h.service.GetPaymentProof(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	streamFile(c, file)
}

// GetImageURL handles GET /booking/get-image-url?id=.
func (h *BookingHandler) GetImageURL(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	url, err := h.service.GetPaymentProofURL(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"url": url})
}
