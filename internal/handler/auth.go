package handler

import (
	"errors"
	"net/http"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrCredencialesInvalidas) {
			c.JSON(http.StatusUnauthorized, apierror.New("Usuario o contraseña incorrectos"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
