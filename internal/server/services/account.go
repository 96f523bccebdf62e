package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/auth"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/repomanager"
)

// CreateAccountInput is the registration payload.
type CreateAccountInput struct {
	Name     string `json:"name" validate:"required,letters"`
	Surname  string `json:"surname" validate:"required,letters"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// UpdateAccountInput lists the profile fields a caller may change. Nil
// fields are left untouched.
type UpdateAccountInput struct {
	Name    *string `json:"name,omitempty" validate:"omitnil,letters"`
	Surname *string `json:"surname,omitempty" validate:"omitnil,letters"`
	Email   *string `json:"email,omitempty" validate:"omitnil,email"`
}

func (in UpdateAccountInput) delta() models.AccountDelta {
	return models.AccountDelta{Name: in.Name, Surname: in.Surname, Email: in.Email}
}

// AccountService implements account CRUD and admin privilege management.
// Every method taking current expects an identity resolved by
// AuthService.CurrentIdentity for this request.
type AccountService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	logger      logging.Logger
}

func NewAccountService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, logger logging.Logger) *AccountService {
	return &AccountService{repomanager: m, hasher: hasher, logger: logger.With("module", "accounts")}
}

// Create registers an active account with the ordinary user role.
// A taken email yields common.ErrConflict.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	account := &models.Account{
		Name:           in.Name,
		Surname:        in.Surname,
		Email:          in.Email,
		HashedPassword: hash,
		Active:         true,
		Roles:          models.NewRoleSet(models.RoleUser),
	}

	created, err := s.repomanager.Accounts().Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrConstraintViolation) {
			s.logger.Error(ctx, "account create rejected by constraint", "error", err.Error())
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "user_id", created.ID)
	return created, nil
}

// Get returns an active account. Any authenticated caller may read any
// account.
func (s *AccountService) Get(ctx context.Context, current *models.Account, id string) (*models.Account, error) {
	if current == nil {
		return nil, common.ErrorUnauthorized
	}
	return s.repomanager.Accounts().GetActiveByID(ctx, id)
}

// Update changes profile fields of id and returns its identifier. The
// permission check runs before the body is validated and before the account
// is looked up, so a caller that may not modify id always gets
// common.ErrForbidden.
func (s *AccountService) Update(ctx context.Context, current *models.Account, id string, in UpdateAccountInput) (string, error) {
	if err := auth.CheckModify(current, id); err != nil {
		return "", err
	}
	delta := in.delta()
	if delta.IsEmpty() {
		return "", fmt.Errorf("%w: at least one parameter for user update info should be provided", common.ErrValidation)
	}
	if err := validateStruct(in); err != nil {
		return "", err
	}

	updated, err := s.repomanager.Accounts().Update(ctx, id, delta)
	if err != nil {
		if errors.Is(err, common.ErrConstraintViolation) {
			s.logger.Error(ctx, "account update rejected by constraint", "user_id", id, "error", err.Error())
		}
		return "", err
	}

	s.logger.Info(ctx, "account updated", "user_id", id, "by", current.ID)
	return updated, nil
}

// Delete deactivates id and returns its identifier.
func (s *AccountService) Delete(ctx context.Context, current *models.Account, id string) (string, error) {
	if err := auth.CheckModify(current, id); err != nil {
		return "", err
	}

	deleted, err := s.repomanager.Accounts().SoftDelete(ctx, id)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "account deleted", "user_id", id, "by", current.ID)
	return deleted, nil
}

// GrantAdmin adds the admin role to id. Only a superadmin may call it, never
// on itself. An account that already is admin or superadmin yields
// common.ErrConflict.
func (s *AccountService) GrantAdmin(ctx context.Context, current *models.Account, id string) (string, error) {
	return s.changeRoles(ctx, current, id, models.GrantAdmin)
}

// RevokeAdmin removes the admin role from id under the same rules as
// GrantAdmin. An account without the admin role yields common.ErrConflict.
func (s *AccountService) RevokeAdmin(ctx context.Context, current *models.Account, id string) (string, error) {
	return s.changeRoles(ctx, current, id, models.RevokeAdmin)
}

// changeRoles reads and rewrites the role set in one transaction with the
// row locked, so concurrent changes to the same account serialize.
func (s *AccountService) changeRoles(ctx context.Context, current *models.Account, id string, change func(models.RoleSet) (models.RoleSet, error)) (string, error) {
	if err := auth.CheckRoleChange(current, id); err != nil {
		return "", err
	}

	var updated string
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repo accounts.Repository) error {
		target, err := repo.GetActiveByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		roles, err := change(target.Roles)
		if err != nil {
			return err
		}

		updated, err = repo.Update(ctx, id, models.AccountDelta{Roles: roles})
		return err
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "account roles changed", "user_id", id, "by", current.ID)
	return updated, nil
}
