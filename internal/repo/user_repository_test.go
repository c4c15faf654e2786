package repo

import (
	"GlucoTrack/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	// успешное создание
	u, err := r.CreateUser(ctx, &model.User{Name: "John", Email: "john@example.com", Password: "hash", DiabetesType: model.DiabetesType1, Active: true})
	assert.NoError(t, err)
	assert.NotZero(t, u.ID)

	// поиск по email — найдено
	got, err := r.GetUserByEmail(ctx, "john@example.com")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// уникальный email — вторая вставка должна дать ошибку
	_, err = r.CreateUser(ctx, &model.User{Name: "John2", Email: "john@example.com", Password: "x", Active: true})
	assert.Error(t, err)

	// поиск несуществующего — (nil, nil)
	got, err = r.GetUserByEmail(ctx, "doesnotexist@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_UpdateAndDeactivate(t *testing.T) {
	db := newTestDB(t)
	r := NewUserRepository(db)
	ctx := context.Background()

	u, err := r.CreateUser(ctx, &model.User{Name: "Jane", Email: "jane@example.com", Password: "hash", DiabetesType: model.DiabetesType2, TargetGlucoseMin: 70, TargetGlucoseMax: 180, Active: true})
	assert.NoError(t, err)

	err = r.UpdateProfile(ctx, u.ID, map[string]any{"name": "Jane Doe", "target_glucose_max": 160})
	assert.NoError(t, err)

	got, err := r.GetUserByID(ctx, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, 160, got.TargetGlucoseMax)
	// нетронутые поля остаются прежними
	assert.Equal(t, 70, got.TargetGlucoseMin)

	err = r.Deactivate(ctx, u.ID)
	assert.NoError(t, err)
	got, err = r.GetUserByID(ctx, u.ID)
	assert.NoError(t, err)
	assert.False(t, got.Active)
}
