package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vamazon/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Register prompts for name, email and password and creates the account.
// On success the user is logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sf.SignUp(ctx, email, string(password), name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", name)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sf.SignIn(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", a.sf.Auth.User().Email)
	return nil
}

// Logout signs out locally and starts a new guest cart.
func (a *App) Logout(ctx context.Context) error {
	a.sf.SignOut(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

// WhoAmI confirms the session with the server before printing it.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.sf.Auth.Verify(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintln(a.out, "Not signed in")
		return nil
	}
	role := ""
	if u.IsAdmin {
		role = ", admin"
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d%s)\n", u.Name, u.Email, u.ID, role)
	return nil
}
