package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophportal/internal/api"
	"github.com/dmitrijs2005/gophportal/internal/client/client"
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

// targetID returns the single user_id argument of a protected command.
func (a *App) targetID(cmd string, args []string) (string, error) {
	if !a.isLoggedIn() {
		return "", errNotLoggedIn
	}
	if len(args) != 1 {
		return "", fmt.Errorf("usage: %s <user_id>", cmd)
	}
	return args[0], nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.targetID("get", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.client.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	a.printAccount(acc)
	return nil
}

func (a *App) printAccount(acc *api.Account) {
	fmt.Fprintf(a.out, "user_id:    %s\n", acc.UserID)
	fmt.Fprintf(a.out, "name:       %s %s\n", acc.Name, acc.Surname)
	fmt.Fprintf(a.out, "email:      %s\n", acc.Email)
	fmt.Fprintf(a.out, "roles:      %s\n", strings.Join(acc.Roles, ", "))
	fmt.Fprintf(a.out, "active:     %t\n", acc.IsActive)
	fmt.Fprintf(a.out, "created_at: %s\n", acc.CreatedAt.Format("2006-01-02 15:04:05"))
}

// Update prompts for each profile field; an empty answer keeps the value.
func (a *App) Update(ctx context.Context, args []string) error {
	id, err := a.targetID("update", args)
	if err != nil {
		return err
	}

	req := &api.UpdateAccountRequest{UserID: id}
	fmt.Fprintln(a.out, "Leave a field empty to keep it unchanged")
	for _, f := range []struct {
		prompt string
		dst    **string
	}{
		{"New name", &req.Name},
		{"New surname", &req.Surname},
		{"New email", &req.Email},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = optional(v)
	}

	if req.Name == nil && req.Surname == nil && req.Email == nil {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	updated, err := a.client.UpdateAccount(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Updated %s\n", updated)
	return nil
}

// Delete asks for confirmation and deactivates the account. Deleting the
// logged in account also logs out.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.targetID("delete", args)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete account %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	deleted, err := a.client.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s\n", deleted)

	// the token of a deleted account stops resolving; a probe tells whether
	// it was ours
	if _, err := a.client.GetAccount(ctx, deleted); errors.Is(err, client.ErrUnauthorized) {
		a.userName = ""
		fmt.Fprintln(a.out, "Logged out")
	}
	return nil
}

func (a *App) Grant(ctx context.Context, args []string) error {
	id, err := a.targetID("grant", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	updated, err := a.client.GrantAdmin(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Granted admin to %s\n", updated)
	return nil
}

func (a *App) Revoke(ctx context.Context, args []string) error {
	id, err := a.targetID("revoke", args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	updated, err := a.client.RevokeAdmin(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Revoked admin from %s\n", updated)
	return nil
}
