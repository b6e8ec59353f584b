package handlers

import (
	"net/http"

	"councilboard/internal/models"
	"councilboard/internal/services"

	"github.com/gin-gonic/gin"
)

type CouncilHandler struct {
	council *services.CouncilService
}

func NewCouncilHandler(council *services.CouncilService) *CouncilHandler {
	return &CouncilHandler{council: council}
}

type councilMemberRequest struct {
	Login          string `json:"login"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	Role           string `json:"role"`
}

func (h *CouncilHandler) List(c *gin.Context) {
	members, err := h.council.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *CouncilHandler) Get(c *gin.Context) {
	m, err := h.council.Get(c.Request.Context(), c.Param("login"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *CouncilHandler) Add(c *gin.Context) {
	var req councilMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	m := models.CouncilMember{
		Login:          req.Login,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
		Role:           req.Role,
	}
	if err := h.council.Add(c.Request.Context(), &m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *CouncilHandler) Remove(c *gin.Context) {
	if err := h.council.Remove(c.Request.Context(), c.Param("login")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
