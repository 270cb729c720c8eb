package users

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/db/models"
	"github.com/angelmondragon/ayurcart-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return NewRepository(conn)
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Name:         " Meera ",
		Email:        " Meera@Example.com ",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.Equal(t, "meera@example.com", created.Email)
	assert.Equal(t, enums.UserRoleUser, created.Role)
	assert.Equal(t, enums.UserStatusNotBlocked, created.Status)

	found, err := repo.FindByEmail(ctx, "MEERA@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meera", byID.Name)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{Name: "Admin", Email: "admin@example.com", PasswordHash: "hash", Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, at))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.True(t, found.LastLoginAt.Equal(at))

	dto := FromModel(found)
	assert.Equal(t, enums.UserRoleAdmin, dto.Role)
	assert.Nil(t, FromModel(nil))
}

func TestRepositoryEmailUniqueness(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	exists, err := repo.ExistsByEmail(ctx, "vata@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, CreateUserDTO{Name: "Vata", Email: "vata@example.com", PasswordHash: "hash"})
	require.NoError(t, err)

	exists, err = repo.ExistsByEmail(ctx, " VATA@example.com ")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Create(ctx, CreateUserDTO{Name: "Vata again", Email: "Vata@Example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}
