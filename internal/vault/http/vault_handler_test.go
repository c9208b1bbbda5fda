package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/credvault/credvault/internal/audit/domain"
	"github.com/credvault/credvault/internal/httputil"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	"github.com/credvault/credvault/internal/vault/http/dto"
)

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

func (m *MockVaultUseCase) Status(ctx context.Context, userID uuid.UUID) (vaultDomain.Status, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(vaultDomain.Status), args.Error(1)
}

func (m *MockVaultUseCase) Setup(ctx context.Context, userID uuid.UUID, secret string) error {
	args := m.Called(ctx, userID, secret)
	return args.Error(0)
}

func (m *MockVaultUseCase) Unlock(ctx context.Context, userID uuid.UUID, secret string) error {
	args := m.Called(ctx, userID, secret)
	return args.Error(0)
}

func (m *MockVaultUseCase) Lock(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockVaultUseCase) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentSecret, newSecret string,
) error {
	args := m.Called(ctx, userID, currentSecret, newSecret)
	return args.Error(0)
}

// MockAuditLogUseCase is a mock implementation of AuditLogUseCase for testing.
type MockAuditLogUseCase struct {
	mock.Mock
}

func (m *MockAuditLogUseCase) Record(
	ctx context.Context,
	userID uuid.UUID,
	operation auditDomain.Operation,
	metadata map[string]any,
) error {
	args := m.Called(ctx, userID, operation, metadata)
	return args.Error(0)
}

func (m *MockAuditLogUseCase) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.AuditLog), args.Error(1)
}

func (m *MockAuditLogUseCase) Cleanup(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func setupVaultTestHandler(t *testing.T) (*VaultHandler, *MockVaultUseCase, *MockAuditLogUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockVaultUseCase := &MockVaultUseCase{}
	mockAudit := &MockAuditLogUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewVaultHandler(mockVaultUseCase, mockAudit, logger), mockVaultUseCase, mockAudit
}

// createAuthedContext creates a test Gin context with an authenticated user.
func createAuthedContext(
	method, path string,
	body interface{},
	userID uuid.UUID,
) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	user := &identityDomain.User{ID: userID}
	req = req.WithContext(identityHTTP.WithUser(req.Context(), user))
	c.Request = req

	return c, w
}

func decodeStatusResponse(t *testing.T, w *httptest.ResponseRecorder) dto.VaultStatusResponse {
	t.Helper()

	var response struct {
		Success bool                    `json:"success"`
		Data    dto.VaultStatusResponse `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	return response.Data
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()

	var response httputil.Response
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	return response
}

func TestVaultHandler_StatusHandler(t *testing.T) {
	t.Run("Success_ReportsState", func(t *testing.T) {
		handler, mockUseCase, _ := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Status", mock.Anything, userID).
			Return(vaultDomain.StatusLocked, nil).
			Once()

		c, w := createAuthedContext(http.MethodGet, "/v1/vault", nil, userID)

		handler.StatusHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, vaultDomain.StatusLocked, decodeStatusResponse(t, w).Status)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, _, _ := setupVaultTestHandler(t)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/vault", nil)

		handler.StatusHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestVaultHandler_SetupHandler(t *testing.T) {
	t.Run("Success_CreatesUnlockedVault", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Setup", mock.Anything, userID, "1234").
			Return(nil).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultSetup, mock.Anything).
			Return(nil).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault", dto.SetupVaultRequest{Pin: "1234"}, userID)

		handler.SetupHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, vaultDomain.StatusUnlocked, decodeStatusResponse(t, w).Status)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_MissingPin", func(t *testing.T) {
		handler, _, _ := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		c, w := createAuthedContext(http.MethodPost, "/v1/vault", dto.SetupVaultRequest{}, userID)

		handler.SetupHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", decodeErrorResponse(t, w).Error.Code)
	})

	t.Run("Error_VaultAlreadyExists", func(t *testing.T) {
		handler, mockUseCase, _ := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Setup", mock.Anything, userID, "1234").
			Return(vaultDomain.ErrVaultExists).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault", dto.SetupVaultRequest{Pin: "1234"}, userID)

		handler.SetupHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", decodeErrorResponse(t, w).Error.Code)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_AuditFailureDoesNotFailRequest", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Setup", mock.Anything, userID, "1234").
			Return(nil).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultSetup, mock.Anything).
			Return(errors.New("audit store down")).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault", dto.SetupVaultRequest{Pin: "1234"}, userID)

		handler.SetupHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		mockAudit.AssertExpectations(t)
	})
}

func TestVaultHandler_UnlockHandler(t *testing.T) {
	t.Run("Success_Unlocks", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Unlock", mock.Anything, userID, "1234").
			Return(nil).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultUnlockSuccess, mock.Anything).
			Return(nil).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault/unlock", dto.UnlockVaultRequest{Pin: "1234"}, userID)

		handler.UnlockHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, vaultDomain.StatusUnlocked, decodeStatusResponse(t, w).Status)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_IncorrectPassword_RecordsFailure", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Unlock", mock.Anything, userID, "9999").
			Return(vaultDomain.ErrIncorrectPassword).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultUnlockFailure, mock.Anything).
			Return(nil).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault/unlock", dto.UnlockVaultRequest{Pin: "9999"}, userID)

		handler.UnlockHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", decodeErrorResponse(t, w).Error.Code)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_NoVault_NoFailureAudit", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Unlock", mock.Anything, userID, "1234").
			Return(vaultDomain.ErrVaultNotFound).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault/unlock", dto.UnlockVaultRequest{Pin: "1234"}, userID)

		handler.UnlockHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVaultHandler_LockHandler(t *testing.T) {
	t.Run("Success_Locks", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Lock", mock.Anything, userID).
			Return(nil).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultLock, mock.Anything).
			Return(nil).
			Once()

		c, w := createAuthedContext(http.MethodPost, "/v1/vault/lock", nil, userID)

		handler.LockHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, vaultDomain.StatusLocked, decodeStatusResponse(t, w).Status)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})
}

func TestVaultHandler_ChangePasswordHandler(t *testing.T) {
	t.Run("Success_ReKeys", func(t *testing.T) {
		handler, mockUseCase, mockAudit := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ChangePassword", mock.Anything, userID, "1234", "5678").
			Return(nil).
			Once()
		mockAudit.On("Record", mock.Anything, userID, auditDomain.OperationVaultPasswordChange, mock.Anything).
			Return(nil).
			Once()

		request := dto.ChangePasswordRequest{CurrentPin: "1234", NewPin: "5678"}
		c, w := createAuthedContext(http.MethodPost, "/v1/vault/password", request, userID)

		handler.ChangePasswordHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, vaultDomain.StatusUnlocked, decodeStatusResponse(t, w).Status)

		mockUseCase.AssertExpectations(t)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_WrongCurrentPin", func(t *testing.T) {
		handler, mockUseCase, _ := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ChangePassword", mock.Anything, userID, "9999", "5678").
			Return(vaultDomain.ErrIncorrectPassword).
			Once()

		request := dto.ChangePasswordRequest{CurrentPin: "9999", NewPin: "5678"}
		c, w := createAuthedContext(http.MethodPost, "/v1/vault/password", request, userID)

		handler.ChangePasswordHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MissingNewPin", func(t *testing.T) {
		handler, _, _ := setupVaultTestHandler(t)
		userID := uuid.Must(uuid.NewV7())

		request := dto.ChangePasswordRequest{CurrentPin: "1234"}
		c, w := createAuthedContext(http.MethodPost, "/v1/vault/password", request, userID)

		handler.ChangePasswordHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
