package mutation

import (
	"context"
	"fmt"

	"github.com/jacentio/arbor/store"
)

// CreateAccount inserts a new account with a fresh id.
func (e *Engine) CreateAccount(ctx context.Context, in CreateAccountInput) (store.Account, error) {
	var out store.Account
	err := e.update(ctx, OpCreateAccount, func(tx *store.Tx) error {
		if tx.EmailTaken(in.Email, "") {
			return fmt.Errorf("create account: email %q: %w", in.Email, store.ErrDuplicateEmail)
		}
		out = store.Account{
			ID:    tx.NewID(store.KindAccount),
			Name:  in.Name,
			Email: in.Email,
			Age:   in.Age,
		}
		return tx.InsertAccount(out)
	})
	if err != nil {
		return store.Account{}, err
	}
	return out.Clone(), nil
}

// UpdateAccount replaces the fields present in patch.
func (e *Engine) UpdateAccount(ctx context.Context, id string, patch AccountPatch) (store.Account, error) {
	var out store.Account
	err := e.update(ctx, OpUpdateAccount, func(tx *store.Tx) error {
		a, ok := tx.Account(id)
		if !ok {
			return fmt.Errorf("update account %q: %w", id, store.ErrNotFound)
		}
		if email, ok := patch.Email.Get(); ok {
			if tx.EmailTaken(email, id) {
				return fmt.Errorf("update account %q: email %q: %w", id, email, store.ErrDuplicateEmail)
			}
			a.Email = email
		}
		a.Name = patch.Name.OrElse(a.Name)
		if age, ok := patch.Age.Get(); ok {
			a.Age = age
		}
		out = a
		return tx.PutAccount(a)
	})
	if err != nil {
		return store.Account{}, err
	}
	return out.Clone(), nil
}

// DeleteAccount removes an account, its posts, every comment on those
// posts and every comment it wrote. No events are published.
func (e *Engine) DeleteAccount(ctx context.Context, id string) (store.Account, error) {
	var out store.Account
	err := e.update(ctx, OpDeleteAccount, func(tx *store.Tx) error {
		res, err := e.planner.Delete(tx, store.Ref{Kind: store.KindAccount, ID: id})
		if err != nil {
			return fmt.Errorf("delete account %q: %w", id, err)
		}
		out = res.Root.(store.Account)
		return nil
	})
	if err != nil {
		return store.Account{}, err
	}
	return out, nil
}
