package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/erzhanov/factory-monitor/internal/models"
)

func TestCheckEquipmentQuota(t *testing.T) {
	factoryID := uuid.New()
	limit10 := 10

	subWithLimit := &models.Subscription{
		FactoryID:      factoryID,
		Plan:           models.PlanBasic,
		EquipmentLimit: &limit10,
		IsActive:       true,
	}
	unlimitedSub := &models.Subscription{
		FactoryID: factoryID,
		Plan:      models.PlanCorporate,
		IsActive:  true,
	}

	manager := userWithFactory(models.RoleManager, &factoryID)
	admin := userWithFactory(models.RoleAdmin, nil)

	tests := []struct {
		name      string
		user      models.User
		sub       *models.Subscription
		count     int
		wantErr   bool
		wantLimit int
	}{
		{
			name:  "лимит не достигнут",
			user:  manager,
			sub:   subWithLimit,
			count: 9,
		},
		{
			name:      "лимит достигнут",
			user:      manager,
			sub:       subWithLimit,
			count:     10,
			wantErr:   true,
			wantLimit: 10,
		},
		{
			name:      "лимит превышен",
			user:      manager,
			sub:       subWithLimit,
			count:     15,
			wantErr:   true,
			wantLimit: 10,
		},
		{
			name:  "корпоративный тариф безлимитен",
			user:  manager,
			sub:   unlimitedSub,
			count: 100000,
		},
		{
			name:      "без активной подписки добавление запрещено",
			user:      manager,
			sub:       nil,
			count:     0,
			wantErr:   true,
			wantLimit: 0,
		},
		{
			name:  "админ не ограничен лимитом",
			user:  admin,
			sub:   nil,
			count: 100000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEquipmentQuota(tt.user, tt.sub, tt.count)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrQuotaExceeded)
			var qErr *QuotaExceededError
			assert.True(t, errors.As(err, &qErr))
			assert.Equal(t, tt.wantLimit, qErr.Limit)
			assert.Equal(t, tt.count, qErr.Count)
		})
	}
}
