package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/response"
)

// UserHandler handles pet owner accounts.
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers the user account routes.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	ownerRole := middleware.RequireRole(auth.RoleOwner)

	users := r.Group("/user")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)

	account := users.Group("")
	account.Use(authMW, ownerRole)
	{
		account.GET("/profile", h.Profile)
		account.POST("/update-profile", h.UpdateProfile)
		account.POST("/delete", h.Delete)
	}
}

// Register handles POST /user/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req application.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /user/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Profile handles GET /user/profile.
func (h *UserHandler) Profile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateProfile handles POST /user/update-profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Delete handles POST /user/delete.
func (h *UserHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "account deleted")
}

// HotelHandler handles hotel accounts.
type HotelHandler struct {
	service *application.HotelService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(service *application.HotelService) *HotelHandler {
	return &HotelHandler{service: service}
}

// RegisterRoutes registers the hotel account routes.
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	hotels := r.Group("/hotel")
	hotels.POST("/register", h.Register)
	hotels.POST("/login", h.Login)
	hotels.GET("/profile",
		middleware.AuthMiddleware(jwtManager),
		middleware.RequireRole(auth.RoleHotel),
		h.Profile,
	)
}

// Register handles POST /hotel/register.
func (h *HotelHandler) Register(c *gin.Context) {
	var req application.RegisterHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles POST /hotel/login. The username field carries the hotel email.
func (h *HotelHandler) Login(c *gin.Context) {
	var req application.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Profile handles GET /hotel/profile.
func (h *HotelHandler) Profile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.GetProfile(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
