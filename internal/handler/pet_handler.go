package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pethotel/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/middleware"
	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/response"
)

// PetHandler handles HTTP requests for pet profile operations.
type PetHandler struct {
	service *application.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(service *application.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// RegisterRoutes registers all pet profile routes.
func (h *PetHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	authMW := middleware.AuthMiddleware(jwtManager)
	ownerRole := middleware.RequireRole(auth.RoleOwner)

	pets := r.Group("/api/v1/pets")
	pets.Use(authMW, ownerRole)
	{
		pets.POST("", h.CreatePet)
		pets.GET("", h.GetMyPets)
		pets.GET("/:id", h.GetPet)
		pets.PUT("/:id", h.UpdatePet)
		pets.DELETE("/:id", h.DeletePet)
	}
}

// CreatePet creates a new pet profile.
func (h *PetHandler) CreatePet(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req application.CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreatePet(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetMyPets returns all active pet profiles of the caller.
func (h *PetHandler) GetMyPets(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	result, err := h.service.GetMyPets(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetPet returns a single pet profile by ID.
func (h *PetHandler) GetPet(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	petID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetPet(c.Request.Context(), actor, petID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePet updates a pet profile.
func (h *PetHandler) UpdatePet(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	petID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req application.UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePet(c.Request.Context(), actor, petID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePet archives a pet profile.
func (h *PetHandler) DeletePet(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	petID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePet(c.Request.Context(), actor, petID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "pet profile archived")
}
