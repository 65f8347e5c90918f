package main

import (
	"fmt"

	"github.com/trezcool/edumanage/core/user"
)

// deleteUser removes a user after confirmation; skipConfirm answers yes up front.
// A declined confirmation changes nothing.
func (cli *commandLine) deleteUser(id user.ID, skipConfirm bool) error {
	actor, err := cli.currentUser(user.RoleAdmin)
	if err != nil {
		return err
	}

	err = cli.users.Delete(actor, id, func(usr user.User) bool {
		return skipConfirm || confirmFunc(cli.out, fmt.Sprintf("Delete %s <%s> (%s)?", usr.Name, usr.Email, usr.Role))
	})
	if err == user.ErrConfirmationRequired {
		fmt.Fprintln(cli.out, "Cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Deleted user %s\n", id)
	return nil
}
