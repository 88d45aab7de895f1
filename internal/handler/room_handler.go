package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/media"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/response"
)

// RoomHandler handles HTTP requests for hotel rooms and their photos.
type RoomHandler struct {
	rooms  *application.RoomService
	photos *application.RoomPhotoService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rooms *application.RoomService, photos *application.RoomPhotoService) *RoomHandler {
	return &RoomHandler{rooms: rooms, photos: photos}
}

type roomStatusFilter struct {
	Status string `form:"status" json:"status" binding:"required"`
}

// RegisterRoutes registers all room routes.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	hotelRole := middleware.RequireRole(auth.RoleHotel)

	rooms := r.Group("/room")
	rooms.Use(authMW)
	{
		rooms.POST("/add-room", hotelRole, h.AddRoom)
		rooms.POST("/update-room", hotelRole, h.UpdateRoom)
		rooms.POST("/list-all-room", hotelRole, h.ListRooms)
		rooms.POST("/list-state-room", hotelRole, h.ListRoomsByStatus)
		rooms.POST("/upload-image", hotelRole, h.UploadImages)
		rooms.GET("/get-images", h.GetImage)
		rooms.GET("/get-images-url", h.GetImageURLs)
		rooms.POST("/delete-image-room", hotelRole, h.DeleteImage)
		rooms.POST("/delete-room", hotelRole, h.DeleteRoom)
	}
}

// AddRoom handles POST /room/add-room.
func (h *RoomHandler) AddRoom(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.AddRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.rooms.AddRoom(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message": msg})
}

// UpdateRoom handles POST /room/update-room.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.rooms.UpdateRoom(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// ListRooms handles POST /room/list-all-room.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.rooms.ListRooms(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListRoomsByStatus handles POST /room/list-state-room.
func (h *RoomHandler) ListRoomsByStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var filter roomStatusFilter
	if err := c.ShouldBind(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.rooms.ListRoomsByStatus(c.Request.Context(), actor, filter.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UploadImages handles POST /room/upload-image with one or more "file" parts.
func (h *RoomHandler) UploadImages(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	roomID, ok := queryID(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}
	headers := form.File["file"]
	uploads := make([]media.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		uploads = append(uploads, up)
	}

	result, err := h.photos.Upload(c.Request.Context(), actor, roomID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetImage handles GET /room/get-images?id= and streams one photo.
func (h *RoomHandler) GetImage(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	file, err := h.photos.GetImage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	streamFile(c, file)
}

// GetImageURLs handles GET /room/get-images-url?id=.
func (h *RoomHandler) GetImageURLs(c *gin.Context) {
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	urls, err := h.photos.GetImageURLs(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, urls)
}

// DeleteImage handles POST /room/delete-image-room?name=.
func (h *RoomHandler) DeleteImage(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	msg, err := h.photos.DeleteImage(c.Request.Context(), actor, c.Query("name"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}

// DeleteRoom handles POST /room/delete-room?id=.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	id, ok := queryID(c, "id")
	if !ok {
		return
	}

	msg, err := h.rooms.DeleteRoom(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, msg)
}
