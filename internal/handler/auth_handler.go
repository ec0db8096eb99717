package handler

import (
	"errors"
	"net/http"

	"github.com/ecommerce-project/backend/internal/config"
	"github.com/ecommerce-project/backend/internal/service"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	accountService *service.AccountService
	cfg            *config.Config
}

func NewAuthHandler(accountService *service.AccountService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		cfg:            cfg,
	}
}

type RolRequest struct {
	Nombre string `json:"nombre"`
}

type SignUpRequest struct {
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Cedula    string     `json:"cedula"`
	Password1 string     `json:"password1"`
	Password2 string     `json:"password2"`
	Direccion string     `json:"direccion"`
	Telefono  string     `json:"telefono"`
	Rol       RolRequest `json:"rol"`
	Groups    []uint     `json:"groups"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ChangePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrMissingFields) ||
		errors.Is(err, service.ErrUsernameTaken) ||
		errors.Is(err, service.ErrEmailTaken) ||
		errors.Is(err, service.ErrCedulaTaken) ||
		errors.Is(err, service.ErrPasswordMismatch) ||
		errors.Is(err, service.ErrTelefonoNotDigits) ||
		errors.Is(err, service.ErrCedulaNotDigits) ||
		errors.Is(err, service.ErrUnknownGroups)
}

// SignUp registers a new inactive user and sends the activation email.
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Signup request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Cuerpo de la solicitud inválido",
		})
		return
	}

	logger.Log.Info("User registration attempt",
		zap.String("username", req.Username),
		zap.String("ip", c.ClientIP()),
	)

	summary, err := h.accountService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Cedula:    req.Cedula,
		Password1: req.Password1,
		Password2: req.Password2,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		RolNombre: req.Rol.Nombre,
		GroupIDs:  req.Groups,
	})

	if err != nil {
		switch {
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrNotificationFailed):
			// The user exists; only the email failed.
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		default:
			logger.Log.Error("Signup failed",
				zap.String("username", req.Username),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error al crear el usuario",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuario creado exitosamente. Revisa tu correo para confirmar tu cuenta.",
		"user":    summary,
	})
}

// Activate confirms an activation link and redirects to the frontend.
// GET /api/auth/activate/:uid/:token
func (h *AuthHandler) Activate(c *gin.Context) {
	uid := c.Param("uid")
	token := c.Param("token")

	if err := h.accountService.Activate(uid, token); err != nil {
		// Success and failure only differ in redirect target, never in
		// detail: the endpoint must not leak why a link was rejected.
		c.Redirect(http.StatusFound, h.cfg.FrontendErrorURL)
		return
	}

	c.Redirect(http.StatusFound, h.cfg.FrontendSuccessURL)
}

// Login authenticates and returns the user summary plus a token pair.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Cuerpo de la solicitud inválido",
		})
		return
	}

	logger.Log.Info("User login attempt",
		zap.String("username", req.Username),
		zap.String("ip", c.ClientIP()),
	)

	summary, tokens, err := h.accountService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Se requieren username y password",
			})
		case errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrAccountNotActivated):
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		default:
			logger.Log.Error("Login failed",
				zap.String("username", req.Username),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error interno del servidor",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login exitoso",
		"user":    summary,
		"tokens":  tokens,
	})
}

// Logout revokes the provided refresh token.
// POST /api/auth/logout (requires authentication)
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Se requiere un refresh token",
		})
		return
	}

	if err := h.accountService.Logout(req.Refresh); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRefreshToken),
			errors.Is(err, service.ErrInvalidToken):
			// Invalid tokens on logout are a 400, not a 401.
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Error al cerrar sesión: token inválido",
			})
		default:
			logger.Log.Error("Logout failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error interno del servidor",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cierre de sesión exitoso",
	})
}

// Refresh exchanges a refresh token for a new access token.
// POST /api/auth/refresh-token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Se requiere un refresh token",
		})
		return
	}

	access, err := h.accountService.Refresh(req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRefreshToken),
			errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": "Error al refrescar el token",
			})
		default:
			logger.Log.Error("Token refresh failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error interno del servidor",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// ChangePassword replaces the password of an existing account.
// POST /api/auth/change-password (requires authentication)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Cuerpo de la solicitud inválido",
		})
		return
	}

	err := h.accountService.ChangePassword(req.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields),
			errors.Is(err, service.ErrSamePassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrWrongCurrentPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		default:
			logger.Log.Error("Password change failed",
				zap.String("username", req.Username),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "Error interno del servidor",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contraseña actualizada exitosamente",
	})
}
