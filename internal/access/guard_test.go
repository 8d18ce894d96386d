package access

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/erzhanov/factory-monitor/internal/models"
)

func userWithFactory(role models.Role, factoryID *uuid.UUID) models.User {
	return models.User{
		ID:        uuid.New(),
		Role:      role,
		FactoryID: factoryID,
		IsActive:  true,
	}
}

func TestCheckFactoryAccess(t *testing.T) {
	factoryA := uuid.New()
	factoryB := uuid.New()

	tests := []struct {
		name       string
		user       models.User
		target     uuid.UUID
		wantErr    bool
		wantReason string
	}{
		{
			name:   "админ имеет доступ к любому заводу",
			user:   userWithFactory(models.RoleAdmin, nil),
			target: factoryA,
		},
		{
			name:   "руководитель имеет доступ к своему заводу",
			user:   userWithFactory(models.RoleManager, &factoryA),
			target: factoryA,
		},
		{
			name:       "руководитель не имеет доступа к чужому заводу",
			user:       userWithFactory(models.RoleManager, &factoryA),
			target:     factoryB,
			wantErr:    true,
			wantReason: ReasonCrossTenant,
		},
		{
			name:       "пользователь без привязки не имеет доступа никуда",
			user:       userWithFactory(models.RoleEngineer, nil),
			target:     factoryA,
			wantErr:    true,
			wantReason: ReasonNotAffiliated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFactoryAccess(tt.user, tt.target)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrForbidden)
			var fErr *ForbiddenError
			assert.True(t, errors.As(err, &fErr))
			assert.Equal(t, tt.wantReason, fErr.Reason)
		})
	}
}

func TestCheckRole(t *testing.T) {
	admin := userWithFactory(models.RoleAdmin, nil)
	factoryID := uuid.New()
	manager := userWithFactory(models.RoleManager, &factoryID)

	assert.NoError(t, CheckRole(admin, models.RoleAdmin))
	assert.NoError(t, CheckRole(manager, models.RoleAdmin, models.RoleManager))
	assert.ErrorIs(t, CheckRole(manager, models.RoleAdmin), ErrForbidden)
	// пустой список разрешённых ролей запрещает всё, даже админу
	assert.ErrorIs(t, CheckRole(admin), ErrForbidden)
}

func TestResolveScope(t *testing.T) {
	factoryA := uuid.New()

	t.Run("админ получает неограниченную область", func(t *testing.T) {
		scope := ResolveScope(userWithFactory(models.RoleAdmin, nil))
		assert.True(t, scope.All)
		assert.True(t, scope.Allows(uuid.New()))
	})

	t.Run("руководитель видит только свой завод", func(t *testing.T) {
		scope := ResolveScope(userWithFactory(models.RoleManager, &factoryA))
		assert.False(t, scope.All)
		assert.True(t, scope.Allows(factoryA))
		assert.False(t, scope.Allows(uuid.New()))
	})

	t.Run("не-админ без привязки не видит ничего", func(t *testing.T) {
		scope := ResolveScope(userWithFactory(models.RoleViewer, nil))
		assert.True(t, scope.MatchesNothing())
		assert.False(t, scope.Allows(factoryA))
	})
}

func TestResolveEntrepreneurScope(t *testing.T) {
	factoryA := uuid.New()
	factoryB := uuid.New()
	factoryC := uuid.New()
	user := userWithFactory(models.RoleManager, nil)

	scope := ResolveEntrepreneurScope(user, []uuid.UUID{factoryA, factoryB})
	assert.True(t, scope.Allows(factoryA))
	assert.True(t, scope.Allows(factoryB))
	assert.False(t, scope.Allows(factoryC))

	empty := ResolveEntrepreneurScope(user, nil)
	assert.True(t, empty.MatchesNothing())
}

func TestCheckScopeAccess(t *testing.T) {
	factoryA := uuid.New()
	factoryB := uuid.New()

	assert.NoError(t, CheckScopeAccess(Unrestricted(), factoryA))
	assert.NoError(t, CheckScopeAccess(RestrictedTo(factoryA), factoryA))

	err := CheckScopeAccess(RestrictedTo(factoryA), factoryB)
	var fErr *ForbiddenError
	assert.True(t, errors.As(err, &fErr))
	assert.Equal(t, ReasonCrossTenant, fErr.Reason)

	err = CheckScopeAccess(RestrictedToSet(nil), factoryA)
	assert.True(t, errors.As(err, &fErr))
	assert.Equal(t, ReasonNotAffiliated, fErr.Reason)
}
