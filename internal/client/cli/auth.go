package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/useradmin/internal/client/services"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// Register prompts for the account fields and creates the account. It does
// not log in.
func (a *App) Register(ctx context.Context) error {
	who, err := a.askAll("Enter name", "Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	contact, err := a.askAll("Enter address", "Enter phone number")
	if err != nil {
		return err
	}

	req := services.RegisterRequest{
		Name:        who[0],
		Email:       who[1],
		Password:    password,
		Address:     contact[0],
		PhoneNumber: contact[1],
	}
	if err := a.session.Register(ctx, req); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Account created. You can now log in.")
	return nil
}

func (a *App) askAll(prompts ...string) ([]string, error) {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		v, err := getSimpleText(a.reader, p, a.out)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Login prompts for credentials, authenticates and loads the user list.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.Current().DisplayName)
	return a.List(ctx)
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
