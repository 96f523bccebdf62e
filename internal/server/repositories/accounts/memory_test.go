package accounts

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func seed(t *testing.T, r *MemoryRepository, email string) *models.Account {
	t.Helper()
	a, err := r.Create(context.Background(), &models.Account{
		Name: "N", Surname: "S", Email: email, HashedPassword: "h", Active: true,
		Roles: models.NewRoleSet(models.RoleUser),
	})
	require.NoError(t, err)
	return a
}

func TestMemory_CreateAndLookup(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "alice@example.com")
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	byEmail, err := r.GetActiveByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byEmail.ID)

	byID, err := r.GetActiveByIDForUpdate(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "alice@example.com")

	got, err := r.GetActiveByID(context.Background(), a.ID)
	require.NoError(t, err)
	got.Roles[0] = models.RoleSuperAdmin
	got.Name = "changed"

	again, err := r.GetActiveByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "N", again.Name)
	assert.False(t, again.IsSuperAdmin())
}

func TestMemory_DuplicateEmail(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "alice@example.com")

	_, err := r.Create(context.Background(), &models.Account{Email: "alice@example.com", Active: true})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)

	// still taken after soft delete
	_, err = r.SoftDelete(context.Background(), a.ID)
	require.NoError(t, err)
	_, err = r.Create(context.Background(), &models.Account{Email: "alice@example.com", Active: true})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)
}

func TestMemory_SoftDeleteHidesAccount(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "alice@example.com")

	id, err := r.SoftDelete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)

	_, err = r.GetActiveByID(context.Background(), a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetActiveByEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.SoftDelete(context.Background(), a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.UpdatePasswordHash(context.Background(), a.ID, "x"), common.ErrorNotFound)
}

func TestMemory_Update(t *testing.T) {
	r := NewMemoryRepository()
	a := seed(t, r, "alice@example.com")
	seed(t, r, "bob@example.com")

	name := "Alicia"
	_, err := r.Update(context.Background(), a.ID, models.AccountDelta{Name: &name, Roles: models.RoleSet{}})
	require.NoError(t, err)

	got, err := r.GetActiveByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Empty(t, got.Roles)

	taken := "bob@example.com"
	_, err = r.Update(context.Background(), a.ID, models.AccountDelta{Email: &taken})
	assert.ErrorIs(t, err, common.ErrConstraintViolation)

	_, err = r.Update(context.Background(), a.ID, models.AccountDelta{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = r.Update(context.Background(), "missing", models.AccountDelta{Name: &name})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemory_ConcurrentCreate(t *testing.T) {
	r := NewMemoryRepository()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(context.Background(), &models.Account{Email: "same@example.com", Active: true})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
}
