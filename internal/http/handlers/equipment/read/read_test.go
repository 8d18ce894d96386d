package read_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/erzhanov/factory-monitor/internal/access"
	"github.com/erzhanov/factory-monitor/internal/http/handlers/equipment/read"
	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	"github.com/erzhanov/factory-monitor/internal/models"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, user models.User, id uuid.UUID) (*models.Equipment, error) {
	args := m.Called(ctx, user, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	factoryID := uuid.New()
	manager := models.User{ID: uuid.New(), Role: models.RoleManager, FactoryID: &factoryID, IsActive: true}
	equipmentID := uuid.New()
	item := &models.Equipment{ID: equipmentID, FactoryID: factoryID, Name: "Пресс ПГ-100"}

	tests := []struct {
		name           string
		url            string
		user           *models.User
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "своё оборудование доступно",
			url:  "/equipment/" + equipmentID.String(),
			user: &manager,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, manager, equipmentID).Return(item, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Пресс ПГ-100"`,
		},
		{
			name: "чужое оборудование запрещено",
			url:  "/equipment/" + equipmentID.String(),
			user: &manager,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, manager, equipmentID).
					Return(nil, &access.ForbiddenError{Reason: access.ReasonCrossTenant})
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"access forbidden"`,
		},
		{
			name: "оборудование не найдено",
			url:  "/equipment/" + equipmentID.String(),
			user: &manager,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, manager, equipmentID).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"equipment not found"`,
		},
		{
			name:           "некорректный id в url",
			url:            "/equipment/abc",
			user:           &manager,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid equipment id"`,
		},
		{
			name:           "отсутствует авторизация",
			url:            "/equipment/" + equipmentID.String(),
			user:           nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"user is not authenticated"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			r := chi.NewRouter()
			r.Get("/equipment/{id}", read.New(logger, mockService).ServeHTTP)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.User, *tt.user)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
