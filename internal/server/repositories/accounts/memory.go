package accounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It backs the server when
// no DSN is configured and is safe for concurrent use. Email uniqueness spans
// inactive accounts too, like the users_email_key constraint.
type MemoryRepository struct {
	mu   sync.Mutex
	byID map[string]*models.Account
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Account), now: time.Now}
}

func clone(a *models.Account) *models.Account {
	c := *a
	c.Roles = append(models.RoleSet{}, a.Roles...)
	return &c
}

func (r *MemoryRepository) emailTaken(email, exceptID string) bool {
	for id, a := range r.byID {
		if id != exceptID && a.Email == email {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if _, ok := r.byID[account.ID]; ok {
		return nil, fmt.Errorf("%w: users_pkey", common.ErrConstraintViolation)
	}
	if r.emailTaken(account.Email, "") {
		return nil, fmt.Errorf("%w: users_email_key", common.ErrConstraintViolation)
	}

	account.CreatedAt = r.now().UTC()
	r.byID[account.ID] = clone(account)
	return account, nil
}

func (r *MemoryRepository) GetActiveByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if a.Active && a.Email == email {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) active(id string) (*models.Account, bool) {
	a, ok := r.byID[id]
	if !ok || !a.Active {
		return nil, false
	}
	return a, true
}

func (r *MemoryRepository) GetActiveByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.active(id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

// GetActiveByIDForUpdate takes no row lock; callers serialize through the
// transaction runner instead.
func (r *MemoryRepository) GetActiveByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return r.GetActiveByID(ctx, id)
}

func (r *MemoryRepository) Update(_ context.Context, id string, delta models.AccountDelta) (string, error) {
	if delta.IsEmpty() {
		return "", fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.active(id)
	if !ok {
		return "", common.ErrorNotFound
	}
	if delta.Email != nil && r.emailTaken(*delta.Email, id) {
		return "", fmt.Errorf("%w: users_email_key", common.ErrConstraintViolation)
	}

	if delta.Name != nil {
		a.Name = *delta.Name
	}
	if delta.Surname != nil {
		a.Surname = *delta.Surname
	}
	if delta.Email != nil {
		a.Email = *delta.Email
	}
	if delta.Roles != nil {
		a.Roles = append(models.RoleSet{}, delta.Roles...)
	}
	return id, nil
}

func (r *MemoryRepository) UpdatePasswordHash(_ context.Context, id string, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.active(id)
	if !ok {
		return common.ErrorNotFound
	}
	a.HashedPassword = hash
	return nil
}

func (r *MemoryRepository) SoftDelete(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.active(id)
	if !ok {
		return "", common.ErrorNotFound
	}
	a.Active = false
	return id, nil
}
