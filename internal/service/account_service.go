package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ecommerce-project/backend/internal/audit"
	"github.com/ecommerce-project/backend/internal/blacklist"
	"github.com/ecommerce-project/backend/internal/config"
	"github.com/ecommerce-project/backend/internal/mailer"
	"github.com/ecommerce-project/backend/internal/models"
	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/internal/utils"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingFields        = errors.New("todos los campos son obligatorios")
	ErrUsernameTaken        = errors.New("el nombre de usuario ya existe")
	ErrEmailTaken           = errors.New("el email ya está registrado")
	ErrCedulaTaken          = errors.New("la cédula ya está registrada")
	ErrPasswordMismatch     = errors.New("las contraseñas no coinciden")
	ErrTelefonoNotDigits    = errors.New("el campo 'telefono' debe contener solo números")
	ErrCedulaNotDigits      = errors.New("el campo 'cedula' debe contener solo números")
	ErrUnknownGroups        = errors.New("uno o más grupos no existen")
	ErrNotificationFailed   = errors.New("usuario creado, pero ocurrió un error al enviar el correo")
	ErrInvalidCredentials   = errors.New("credenciales inválidas")
	ErrAccountNotActivated  = errors.New("tu cuenta no está activada, por favor verifica tu correo electrónico")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrWrongCurrentPassword = errors.New("la contraseña actual es incorrecta")
	ErrSamePassword         = errors.New("la nueva contraseña no puede ser igual a la actual")
	ErrMissingRefreshToken  = errors.New("se requiere un refresh token")
	ErrInvalidToken         = errors.New("token inválido")

	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
)

// Default description stamped on roles created on demand at registration.
const defaultRolDescripcion = "Comprador"

// AccountService orchestrates the user lifecycle: registration,
// activation, login, logout, refresh and password change.
type AccountService struct {
	userRepo  *repository.UserRepository
	roleRepo  *repository.RoleRepository
	groupRepo *repository.GroupRepository
	blacklist blacklist.Blacklist
	mailer    mailer.Mailer
	journal   *audit.Log
	cfg       *config.Config
}

func NewAccountService(
	userRepo *repository.UserRepository,
	roleRepo *repository.RoleRepository,
	groupRepo *repository.GroupRepository,
	bl blacklist.Blacklist,
	m mailer.Mailer,
	journal *audit.Log,
	cfg *config.Config,
) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		groupRepo: groupRepo,
		blacklist: bl,
		mailer:    m,
		journal:   journal,
		cfg:       cfg,
	}
}

// IsProduction returns true if running in production environment
func (s *AccountService) IsProduction() bool {
	return s.cfg.Environment == "production"
}

type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Cedula    string
	Password1 string
	Password2 string
	Direccion string
	Telefono  string
	RolNombre string
	GroupIDs  []uint
}

// UserSummary is the shape returned to clients after registration/login.
type UserSummary struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Cedula      string   `json:"cedula"`
	Rol         string   `json:"rol"`
	Groups      []string `json:"groups,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Register creates a new inactive user and dispatches the activation
// email. Validation failures are reported one at a time, in a fixed
// order. Mail dispatch happens after the user row exists: a dispatch
// failure keeps the user and surfaces as ErrNotificationFailed.
func (s *AccountService) Register(in RegisterInput) (*UserSummary, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", in.Username),
		zap.String("email", in.Email),
	)

	if in.Username == "" || in.Email == "" || in.FirstName == "" || in.LastName == "" ||
		in.Cedula == "" || in.Password1 == "" || in.Password2 == "" ||
		in.Direccion == "" || in.Telefono == "" || in.RolNombre == "" {
		return nil, ErrMissingFields
	}

	if existing, err := s.userRepo.GetByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Log.Warn("Registration rejected: username taken", zap.String("username", in.Username))
		return nil, ErrUsernameTaken
	}

	if existing, err := s.userRepo.GetByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Log.Warn("Registration rejected: email taken", zap.String("email", in.Email))
		return nil, ErrEmailTaken
	}

	if existing, err := s.userRepo.GetByCedula(in.Cedula); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Log.Warn("Registration rejected: cedula taken", zap.String("cedula", in.Cedula))
		return nil, ErrCedulaTaken
	}

	if in.Password1 != in.Password2 {
		return nil, ErrPasswordMismatch
	}

	if !digitsRegex.MatchString(in.Telefono) {
		return nil, ErrTelefonoNotDigits
	}
	if !digitsRegex.MatchString(in.Cedula) {
		return nil, ErrCedulaNotDigits
	}

	// Resolve groups before touching the users table, so a bad group id
	// never leaves behind a half-configured account.
	groups, err := s.groupRepo.GetByIDs(in.GroupIDs)
	if err != nil {
		return nil, err
	}
	if len(groups) != len(in.GroupIDs) {
		return nil, ErrUnknownGroups
	}

	rol, err := s.roleRepo.GetOrCreate(in.RolNombre, defaultRolDescripcion)
	if err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(in.Password1)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: passwordHash,
		Cedula:       in.Cedula,
		Direccion:    in.Direccion,
		Telefono:     in.Telefono,
		IsActive:     false,
		RolID:        &rol.ID,
		Rol:          rol,
		Groups:       groups,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("username", in.Username),
			zap.Error(err),
		)
		return nil, err
	}

	s.journal.Record(audit.EventRegistered, user.ID.String(), user.Username)

	permissions, err := s.userRepo.EffectivePermissions(user.ID)
	if err != nil {
		return nil, err
	}

	groupNames := make([]string, 0, len(groups))
	for _, g := range groups {
		groupNames = append(groupNames, g.Name)
	}

	summary := &UserSummary{
		Username:    user.Username,
		Email:       user.Email,
		Cedula:      user.Cedula,
		Rol:         rol.Nombre,
		Groups:      groupNames,
		Permissions: permissions,
	}

	link := s.ActivationLink(user)
	if err := s.mailer.SendActivationEmail(user.Email, user.Username, link); err != nil {
		logger.Log.Error("Activation email dispatch failed",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.Error(err),
		)
		return summary, ErrNotificationFailed
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("total_duration", time.Since(start)),
	)

	return summary, nil
}

// ActivationLink builds the email-delivered URL embedding the encoded
// user id and a freshly issued activation token.
func (s *AccountService) ActivationLink(user *models.User) string {
	uid := utils.EncodeUID(user.ID)
	token := utils.MakeActivationToken(user, s.cfg.ActivationSecret)
	return fmt.Sprintf("%s/api/auth/activate/%s/%s", s.cfg.ActivationBaseURL, uid, token)
}

// Activate confirms an email-delivered activation link. Every failure
// mode (bad uid, unknown user, stale or forged token) collapses into
// ErrInvalidToken so the endpoint cannot be used as an oracle.
func (s *AccountService) Activate(uidEncoded, token string) error {
	id, err := utils.DecodeUID(uidEncoded)
	if err != nil {
		return ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(id)
	if err != nil {
		logger.Log.Error("Failed to load user for activation", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}

	// An already-active user fails the recomputation because is_active
	// participates in the hash: the first confirmation invalidates the
	// token for all subsequent calls.
	if !utils.CheckActivationToken(user, token, s.cfg.ActivationSecret, s.cfg.ActivationExpiry) {
		logger.Log.Warn("Activation token rejected",
			zap.String("user_id", user.ID.String()),
		)
		return ErrInvalidToken
	}

	if err := s.userRepo.Activate(user.ID); err != nil {
		logger.Log.Error("Failed to activate user",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.journal.Record(audit.EventActivated, user.ID.String(), user.Username)

	logger.Log.Info("User account activated",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return nil
}

// Login authenticates by username and password. Unknown usernames and
// wrong passwords share one generic error; inactive accounts get an
// explicit message matching the established API contract.
func (s *AccountService) Login(username, password string) (*UserSummary, *utils.TokenPair, error) {
	if username == "" || password == "" {
		return nil, nil, ErrMissingFields
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username", zap.Error(err))
		return nil, nil, err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found", zap.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Log.Warn("Login rejected: account not activated",
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, ErrAccountNotActivated
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password", zap.Error(err))
		return nil, nil, err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := utils.GenerateTokenPair(user, s.cfg.JWTSecret, s.cfg.AccessExpiry, s.cfg.RefreshExpiry)
	if err != nil {
		logger.Log.Error("Failed to generate token pair",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("Failed to update last login",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	s.journal.Record(audit.EventLogin, user.ID.String(), user.Username)

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	summary := &UserSummary{
		Username: user.Username,
		Email:    user.Email,
		Cedula:   user.Cedula,
		Rol:      user.RolNombre(),
	}

	return summary, pair, nil
}

// ChangePassword verifies the current password before storing the new
// hash. The old password stops working immediately.
func (s *AccountService) ChangePassword(username, currentPassword, newPassword string) error {
	if username == "" || currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	valid, err := utils.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !valid {
		return ErrWrongCurrentPassword
	}

	if currentPassword == newPassword {
		return ErrSamePassword
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, newHash); err != nil {
		logger.Log.Error("Failed to update password",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return err
	}

	s.journal.Record(audit.EventPasswordChanged, user.ID.String(), user.Username)

	logger.Log.Info("Password changed",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)

	return nil
}

// Logout revokes a refresh token by blacklisting its jti for the rest of
// its natural life. An already-revoked or malformed token is rejected.
func (s *AccountService) Logout(refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}

	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret, utils.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidToken
	}

	revoked, err := s.blacklist.Contains(claims.ID)
	if err != nil {
		logger.Log.Error("Blacklist lookup failed", zap.Error(err))
		return err
	}
	if revoked {
		return ErrInvalidToken
	}

	if err := s.blacklist.Add(claims.ID, claims.RemainingLife()); err != nil {
		logger.Log.Error("Failed to blacklist refresh token",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
		return err
	}

	s.journal.Record(audit.EventLogout, claims.UserID.String(), claims.Username)

	logger.Log.Info("Refresh token revoked",
		zap.String("user_id", claims.UserID.String()),
		zap.String("jti", claims.ID),
	)

	return nil
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new
// access token. Claims are copied from the refresh token, so the role
// snapshot taken at login survives the exchange.
func (s *AccountService) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingRefreshToken
	}

	claims, err := utils.ValidateToken(refreshToken, s.cfg.JWTSecret, utils.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidToken
	}

	revoked, err := s.blacklist.Contains(claims.ID)
	if err != nil {
		logger.Log.Error("Blacklist lookup failed", zap.Error(err))
		return "", err
	}
	if revoked {
		logger.Log.Warn("Refresh rejected: token blacklisted",
			zap.String("jti", claims.ID),
		)
		return "", ErrInvalidToken
	}

	access, err := utils.GenerateAccessFromClaims(claims, s.cfg.JWTSecret, s.cfg.AccessExpiry)
	if err != nil {
		return "", err
	}

	return access, nil
}

// GetSummary loads the login-style summary for an authenticated user.
func (s *AccountService) GetSummary(id uuid.UUID) (*UserSummary, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &UserSummary{
		Username: user.Username,
		Email:    user.Email,
		Cedula:   user.Cedula,
		Rol:      user.RolNombre(),
	}, nil
}
