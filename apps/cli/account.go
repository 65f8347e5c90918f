package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/session"
	"github.com/trezcool/edumanage/core/user"
)

func (cli *commandLine) login(email, role string) error {
	req := user.LoginRequest{Email: email}
	if role != "" {
		r, err := user.ParseRole(role)
		if err != nil {
			return err
		}
		req.Role = r
	}

	usr, err := cli.users.Login(req)
	if err != nil {
		if cli.printFieldErrors(err) {
			return errors.New("login failed")
		}
		return err
	}
	if err := cli.state.Login(usr); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", usr.Name, usr.Role)
	return nil
}

// signup submits the form and waits for the registration to complete, then logs the new user in.
func (cli *commandLine) signup(form user.SignupForm) error {
	reg, err := cli.users.Signup(cli.ctx, form, nil)
	if err != nil {
		if cli.printFieldErrors(err) {
			return errors.New("signup form is not valid")
		}
		return err
	}
	fmt.Fprintln(cli.out, "Creating your account...")

	select {
	case <-reg.Acknowledged():
		fmt.Fprintln(cli.out, "Registration received.")
	case <-reg.Done():
	}
	<-reg.Done()

	usr, ok := reg.User()
	if !ok {
		if err := reg.Err(); err != nil {
			return errors.Wrap(err, "registration "+string(reg.State()))
		}
		return errors.Errorf("registration %s", reg.State())
	}
	if err := cli.state.Login(usr); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Welcome %s! You are logged in as %s.\n", usr.Name, usr.Role)
	return nil
}

func (cli *commandLine) logout() error {
	if _, ok := cli.state.CurrentUser(); !ok {
		return session.ErrNoSession
	}
	if err := cli.state.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out")
	return nil
}

func (cli *commandLine) whoami() error {
	usr, err := cli.currentUser()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s <%s> %s (%s)\n", usr.Name, usr.Email, usr.Role, usr.ID)
	return nil
}

// theme prints the current theme, or changes it: "dark", "light" or "toggle".
func (cli *commandLine) theme(arg string) error {
	switch arg {
	case "":
	case "toggle":
		if _, err := cli.state.ToggleTheme(); err != nil {
			return err
		}
	default:
		t, err := session.ParseTheme(arg)
		if err != nil {
			return err
		}
		if err := cli.state.SetTheme(t); err != nil {
			return err
		}
	}
	fmt.Fprintf(cli.out, "Theme: %s\n", cli.state.Theme())
	return nil
}
