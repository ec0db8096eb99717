package service_test

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ecommerce-project/backend/internal/audit"
	"github.com/ecommerce-project/backend/internal/blacklist"
	"github.com/ecommerce-project/backend/internal/config"
	"github.com/ecommerce-project/backend/internal/repository"
	"github.com/ecommerce-project/backend/internal/service"
	"github.com/ecommerce-project/backend/internal/testutil"
	"github.com/ecommerce-project/backend/internal/utils"
	"github.com/ecommerce-project/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testJournalPath = "/tmp/test_audit_accounts.log"

// AccountServiceIntegrationTestSuite defines test suite
type AccountServiceIntegrationTestSuite struct {
	suite.Suite
	testDB         *testutil.TestDatabase
	testRedis      *testutil.TestRedis
	mockMailer     *testutil.MockMailer
	journal        *audit.Log
	accountService *service.AccountService
	userRepo       *repository.UserRepository
	cfg            *config.Config
}

// SetupSuite runs before all tests
func (s *AccountServiceIntegrationTestSuite) SetupSuite() {
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())
	s.testRedis = testutil.SetupTestRedis(s.T())

	os.RemoveAll(testJournalPath)
	journal, err := audit.NewLog(testJournalPath)
	assert.NoError(s.T(), err)
	s.journal = journal

	bl, err := blacklist.NewRedisBlacklist(s.testRedis.URL)
	assert.NoError(s.T(), err)

	s.mockMailer = testutil.NewMockMailer()

	s.cfg = &config.Config{
		Environment:       "test",
		JWTSecret:         "jwt-secret-for-testing",
		AccessExpiry:      15 * time.Minute,
		RefreshExpiry:     168 * time.Hour,
		ActivationSecret:  "activation-secret-for-testing",
		ActivationExpiry:  72 * time.Hour,
		ActivationBaseURL: "http://localhost:8080",
	}

	s.userRepo = repository.NewUserRepository(s.testDB.DB)
	roleRepo := repository.NewRoleRepository(s.testDB.DB)
	groupRepo := repository.NewGroupRepository(s.testDB.DB)

	s.accountService = service.NewAccountService(
		s.userRepo, roleRepo, groupRepo, bl, s.mockMailer, s.journal, s.cfg,
	)
}

// TearDownSuite runs after all tests
func (s *AccountServiceIntegrationTestSuite) TearDownSuite() {
	s.journal.Close()
	os.RemoveAll(testJournalPath)
	s.testDB.Teardown(s.T())
	s.testRedis.Teardown(s.T())
}

// SetupTest runs before each test
func (s *AccountServiceIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)
	s.testRedis.Server.FlushAll()
	s.mockMailer.Reset()
}

func validRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		Username:  "u1",
		Email:     "u1@example.com",
		FirstName: "Usuario",
		LastName:  "Uno",
		Cedula:    "111111111",
		Password1: "Secreta123",
		Password2: "Secreta123",
		Direccion: "Calle 1 #2-3",
		Telefono:  "3001234567",
		RolNombre: "Cliente",
	}
}

// activationLinkParts pulls the encoded uid and token out of the last
// captured activation mail.
func (s *AccountServiceIntegrationTestSuite) activationLinkParts() (string, string) {
	mail := s.mockMailer.LastEmail()
	s.Require().NotNil(mail, "Activation email should have been sent")

	prefix := s.cfg.ActivationBaseURL + "/api/auth/activate/"
	s.Require().True(strings.HasPrefix(mail.Link, prefix), "Unexpected link: %s", mail.Link)

	parts := strings.SplitN(strings.TrimPrefix(mail.Link, prefix), "/", 2)
	s.Require().Len(parts, 2)
	return parts[0], parts[1]
}

// TestRegisterCreatesInactiveUser tests that a new account starts pending
func (s *AccountServiceIntegrationTestSuite) TestRegisterCreatesInactiveUser() {
	summary, err := s.accountService.Register(validRegisterInput())

	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), summary)
	assert.Equal(s.T(), "u1", summary.Username)
	assert.Equal(s.T(), "u1@example.com", summary.Email)
	assert.Equal(s.T(), "Cliente", summary.Rol)

	user, err := s.userRepo.GetByUsername("u1")
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), user)
	assert.False(s.T(), user.IsActive, "New accounts must start inactive")

	// Activation mail went out with a link
	mail := s.mockMailer.LastEmail()
	assert.NotNil(s.T(), mail)
	assert.Equal(s.T(), "u1@example.com", mail.To)
	assert.Contains(s.T(), mail.Link, "/api/auth/activate/")
}

// TestRegisterDuplicateUsername tests uniqueness on username
func (s *AccountServiceIntegrationTestSuite) TestRegisterDuplicateUsername() {
	_, err := s.accountService.Register(validRegisterInput())
	assert.NoError(s.T(), err)

	in := validRegisterInput()
	in.Email = "other@example.com"
	in.Cedula = "222222222"

	summary, err := s.accountService.Register(in)
	assert.Nil(s.T(), summary)
	assert.Equal(s.T(), service.ErrUsernameTaken, err)
}

// TestRegisterDuplicateEmail tests uniqueness on email
func (s *AccountServiceIntegrationTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.accountService.Register(validRegisterInput())
	assert.NoError(s.T(), err)

	in := validRegisterInput()
	in.Username = "u2"
	in.Cedula = "222222222"

	summary, err := s.accountService.Register(in)
	assert.Nil(s.T(), summary)
	assert.Equal(s.T(), service.ErrEmailTaken, err)
}

// TestRegisterDuplicateCedula tests uniqueness on cedula
func (s *AccountServiceIntegrationTestSuite) TestRegisterDuplicateCedula() {
	_, err := s.accountService.Register(validRegisterInput())
	assert.NoError(s.T(), err)

	in := validRegisterInput()
	in.Username = "u2"
	in.Email = "u2@example.com"

	summary, err := s.accountService.Register(in)
	assert.Nil(s.T(), summary)
	assert.Equal(s.T(), service.ErrCedulaTaken, err)
}

// TestRegisterValidation tests single-field validation failures
func (s *AccountServiceIntegrationTestSuite) TestRegisterValidation() {
	testCases := []struct {
		name     string
		mutate   func(*service.RegisterInput)
		expected error
	}{
		{
			name:     "Missing username",
			mutate:   func(in *service.RegisterInput) { in.Username = "" },
			expected: service.ErrMissingFields,
		},
		{
			name:     "Missing direccion",
			mutate:   func(in *service.RegisterInput) { in.Direccion = "" },
			expected: service.ErrMissingFields,
		},
		{
			name:     "Password mismatch",
			mutate:   func(in *service.RegisterInput) { in.Password2 = "Distinta123" },
			expected: service.ErrPasswordMismatch,
		},
		{
			name:     "Telefono with letters",
			mutate:   func(in *service.RegisterInput) { in.Telefono = "300ABC4567" },
			expected: service.ErrTelefonoNotDigits,
		},
		{
			name:     "Cedula with letters",
			mutate:   func(in *service.RegisterInput) { in.Cedula = "11A111111" },
			expected: service.ErrCedulaNotDigits,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			in := validRegisterInput()
			tc.mutate(&in)

			summary, err := s.accountService.Register(in)
			assert.Nil(s.T(), summary)
			assert.Equal(s.T(), tc.expected, err)
		})
	}
}

// TestRegisterUnknownGroupLeavesNoUser tests that a bad group id aborts
// registration before the user row is written
func (s *AccountServiceIntegrationTestSuite) TestRegisterUnknownGroupLeavesNoUser() {
	in := validRegisterInput()
	in.GroupIDs = []uint{9999}

	summary, err := s.accountService.Register(in)
	assert.Nil(s.T(), summary)
	assert.Equal(s.T(), service.ErrUnknownGroups, err)

	user, err := s.userRepo.GetByUsername("u1")
	assert.NoError(s.T(), err)
	assert.Nil(s.T(), user, "No user row should exist after a group failure")
}

// TestRegisterWithGroupInheritsPermissions tests group membership at signup
func (s *AccountServiceIntegrationTestSuite) TestRegisterWithGroupInheritsPermissions() {
	group, err := testutil.CreateTestGroup(s.testDB.DB, "vendedores", "add_producto", "change_producto")
	s.Require().NoError(err)

	in := validRegisterInput()
	in.GroupIDs = []uint{group.ID}

	summary, err := s.accountService.Register(in)
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), summary)
	assert.Contains(s.T(), summary.Groups, "vendedores")
	assert.Contains(s.T(), summary.Permissions, "add_producto")
	assert.Contains(s.T(), summary.Permissions, "change_producto")
}

// TestRegisterMailFailureKeepsUser tests that the account survives a
// dispatch failure
func (s *AccountServiceIntegrationTestSuite) TestRegisterMailFailureKeepsUser() {
	s.mockMailer.Fail = true

	summary, err := s.accountService.Register(validRegisterInput())
	assert.Equal(s.T(), service.ErrNotificationFailed, err)
	assert.NotNil(s.T(), summary, "Summary is still returned: the user exists")

	user, repoErr := s.userRepo.GetByUsername("u1")
	assert.NoError(s.T(), repoErr)
	assert.NotNil(s.T(), user)
	assert.False(s.T(), user.IsActive)
}

// TestActivationFlow tests register -> activate -> login end to end
func (s *AccountServiceIntegrationTestSuite) TestActivationFlow() {
	_, err := s.accountService.Register(validRegisterInput())
	s.Require().NoError(err)

	// Pending account cannot log in
	_, _, err = s.accountService.Login("u1", "Secreta123")
	assert.Equal(s.T(), service.ErrAccountNotActivated, err)

	uid, token := s.activationLinkParts()

	err = s.accountService.Activate(uid, token)
	assert.NoError(s.T(), err)

	user, err := s.userRepo.GetByUsername("u1")
	assert.NoError(s.T(), err)
	assert.True(s.T(), user.IsActive)

	// Active account logs in and gets a token pair
	summary, pair, err := s.accountService.Login("u1", "Secreta123")
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), summary)
	assert.NotNil(s.T(), pair)
	assert.NotEmpty(s.T(), pair.Access)
	assert.NotEmpty(s.T(), pair.Refresh)
}

// TestActivationTokenSingleUse tests that a link dies after first use
func (s *AccountServiceIntegrationTestSuite) TestActivationTokenSingleUse() {
	_, err := s.accountService.Register(validRegisterInput())
	s.Require().NoError(err)

	uid, token := s.activationLinkParts()

	err = s.accountService.Activate(uid, token)
	assert.NoError(s.T(), err)

	// Same link a second time: the activated state no longer matches
	err = s.accountService.Activate(uid, token)
	assert.Equal(s.T(), service.ErrInvalidToken, err)
}

// TestActivationRejectsGarbage tests the opaque failure path
func (s *AccountServiceIntegrationTestSuite) TestActivationRejectsGarbage() {
	assert.Equal(s.T(), service.ErrInvalidToken, s.accountService.Activate("not-base64!!", "token"))

	_, err := s.accountService.Register(validRegisterInput())
	s.Require().NoError(err)
	uid, _ := s.activationLinkParts()

	assert.Equal(s.T(), service.ErrInvalidToken, s.accountService.Activate(uid, "1-forgedtokenvalue"))
}

// TestLoginUnknownUserAndWrongPassword share one generic error
func (s *AccountServiceIntegrationTestSuite) TestLoginGenericCredentialError() {
	_, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	_, _, err = s.accountService.Login("nadie", "Secreta123")
	assert.Equal(s.T(), service.ErrInvalidCredentials, err)

	_, _, err = s.accountService.Login("activo", "Incorrecta123")
	assert.Equal(s.T(), service.ErrInvalidCredentials, err)

	_, _, err = s.accountService.Login("", "")
	assert.Equal(s.T(), service.ErrMissingFields, err)
}

// TestLoginTokenClaims tests the snapshot carried in issued tokens
func (s *AccountServiceIntegrationTestSuite) TestLoginTokenClaims() {
	_, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	_, pair, err := s.accountService.Login("activo", "Secreta123")
	s.Require().NoError(err)

	claims, err := utils.ValidateToken(pair.Access, s.cfg.JWTSecret, utils.TokenTypeAccess)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "activo", claims.Username)
	assert.Equal(s.T(), "Cliente", claims.Rol)
	assert.Equal(s.T(), utils.TokenTypeAccess, claims.TokenType)
}

// TestChangePassword tests the full password change contract
func (s *AccountServiceIntegrationTestSuite) TestChangePassword() {
	_, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	// Wrong current password
	err = s.accountService.ChangePassword("activo", "Incorrecta123", "Nueva12345")
	assert.Equal(s.T(), service.ErrWrongCurrentPassword, err)

	// New password equal to current
	err = s.accountService.ChangePassword("activo", "Secreta123", "Secreta123")
	assert.Equal(s.T(), service.ErrSamePassword, err)

	// Unknown user
	err = s.accountService.ChangePassword("nadie", "Secreta123", "Nueva12345")
	assert.Equal(s.T(), service.ErrUserNotFound, err)

	// Success: the old password stops working immediately
	err = s.accountService.ChangePassword("activo", "Secreta123", "Nueva12345")
	assert.NoError(s.T(), err)

	_, _, err = s.accountService.Login("activo", "Secreta123")
	assert.Equal(s.T(), service.ErrInvalidCredentials, err)

	_, _, err = s.accountService.Login("activo", "Nueva12345")
	assert.NoError(s.T(), err)
}

// TestLogoutRevokesRefreshToken tests the blacklist round trip
func (s *AccountServiceIntegrationTestSuite) TestLogoutRevokesRefreshToken() {
	_, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	_, pair, err := s.accountService.Login("activo", "Secreta123")
	s.Require().NoError(err)

	// Refresh works before logout
	access, err := s.accountService.Refresh(pair.Refresh)
	assert.NoError(s.T(), err)
	assert.NotEmpty(s.T(), access)

	err = s.accountService.Logout(pair.Refresh)
	assert.NoError(s.T(), err)

	// Revoked token can no longer refresh
	_, err = s.accountService.Refresh(pair.Refresh)
	assert.Equal(s.T(), service.ErrInvalidToken, err)

	// Second logout of the same token is rejected
	err = s.accountService.Logout(pair.Refresh)
	assert.Equal(s.T(), service.ErrInvalidToken, err)
}

// TestLogoutRejectsAccessToken tests token type enforcement
func (s *AccountServiceIntegrationTestSuite) TestLogoutRejectsAccessToken() {
	_, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	_, pair, err := s.accountService.Login("activo", "Secreta123")
	s.Require().NoError(err)

	err = s.accountService.Logout(pair.Access)
	assert.Equal(s.T(), service.ErrInvalidToken, err)

	err = s.accountService.Logout("")
	assert.Equal(s.T(), service.ErrMissingRefreshToken, err)
}

// TestRefreshPreservesRoleSnapshot tests that the snapshot taken at
// login survives the exchange without a database read
func (s *AccountServiceIntegrationTestSuite) TestRefreshPreservesRoleSnapshot() {
	user, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	_, pair, err := s.accountService.Login("activo", "Secreta123")
	s.Require().NoError(err)

	// Change the stored role after login
	adminRol, err := testutil.CreateTestRol(s.testDB.DB, "Administrador")
	s.Require().NoError(err)
	s.Require().NoError(s.testDB.DB.Model(user).Update("rol_id", adminRol.ID).Error)

	access, err := s.accountService.Refresh(pair.Refresh)
	s.Require().NoError(err)

	claims, err := utils.ValidateToken(access, s.cfg.JWTSecret, utils.TokenTypeAccess)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Cliente", claims.Rol, "Refresh must carry the login-time snapshot")
}

// TestJournalRecordsLifecycle tests the audit trail across the state machine
func (s *AccountServiceIntegrationTestSuite) TestJournalRecordsLifecycle() {
	start := time.Now()

	_, err := s.accountService.Register(validRegisterInput())
	s.Require().NoError(err)

	uid, token := s.activationLinkParts()
	s.Require().NoError(s.accountService.Activate(uid, token))

	_, pair, err := s.accountService.Login("u1", "Secreta123")
	s.Require().NoError(err)
	s.Require().NoError(s.accountService.Logout(pair.Refresh))

	entries, err := s.journal.ReadAll()
	assert.NoError(s.T(), err)

	var events []string
	for _, e := range entries {
		if e.Username == "u1" && !e.Timestamp.Before(start) {
			events = append(events, e.Event)
		}
	}
	assert.Equal(s.T(), []string{
		audit.EventRegistered,
		audit.EventActivated,
		audit.EventLogin,
		audit.EventLogout,
	}, events)
}

// TestGetSummary tests the authenticated profile lookup
func (s *AccountServiceIntegrationTestSuite) TestGetSummary() {
	user, err := testutil.CreateTestUser(s.testDB.DB, "activo", "activo@example.com", "333333333", "Secreta123", true)
	s.Require().NoError(err)

	summary, err := s.accountService.GetSummary(user.ID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "activo", summary.Username)
	assert.Equal(s.T(), "Cliente", summary.Rol)

	_, err = s.accountService.GetSummary(testutil.MustParseUUID("00000000-0000-0000-0000-000000000001"))
	assert.Equal(s.T(), service.ErrUserNotFound, err)
}

// TestSuite runs all tests in the suite
func TestAccountServiceIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceIntegrationTestSuite))
}
