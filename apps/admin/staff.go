package main

import (
	"context"
	"fmt"

	"github.com/pgmhostel/pgm/core/staff"
)

func (cli *commandLine) addStaff(name, email, role, pwd string) error {
	s, err := cli.staffSvc.Create(context.Background(), staff.NewStaff{
		Name:            name,
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "created %s %s <%s>\n", s.Role, s.Name, s.Email)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.staffSvc.ResetPassword(context.Background(), staff.ResetPassword{Email: email, Password: pwd})
}
