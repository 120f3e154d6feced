package user

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/veilcall/core/internal/middleware"
	"github.com/veilcall/core/internal/pkg/response"
	"github.com/veilcall/core/internal/store"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts account routes. authLimiter guards the credential
// endpoints; authMW guards everything operating on the logged-in account.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authLimiter, authMW gin.HandlerFunc) {
	rg.POST("/register", authLimiter, h.register)
	rg.POST("/login", authLimiter, h.login)

	a := rg.Group("", authMW)
	a.POST("/logout", h.logout)

	u := a.Group("/user")
	u.GET("/profile", h.profile)
	u.PATCH("/profile", h.updateProfile)
	u.PATCH("/settings", h.updateSettings)
	u.PATCH("/password", h.changePassword)
	u.DELETE("", h.deleteAccount)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			response.Conflict(c, "User already exists")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toSummary(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			response.UnauthorizedMsg(c, "Invalid credentials")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, User: toSummary(u)})
}

func (h *Handler) logout(c *gin.Context) {
	h.svc.Logout(middleware.CurrentUserID(c))
	response.NoContent(c)
}

func (h *Handler) profile(c *gin.Context) {
	u, err := h.svc.Profile(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toProfile(u))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, toProfile(u))
}

func (h *Handler) updateSettings(c *gin.Context) {
	var dto UpdateSettingsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	settings, err := h.svc.UpdateSettings(middleware.CurrentUserID(c), dto.Settings)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"settings": settings})
}

func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.svc.ChangePassword(middleware.CurrentUserID(c), dto.CurrentPassword, dto.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidCredentials):
			response.BadRequest(c, "Current password is incorrect")
		case errors.Is(err, store.ErrNotFound):
			response.NotFound(c, "User not found")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}

func (h *Handler) deleteAccount(c *gin.Context) {
	err := h.svc.DeleteAccount(middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
