package main

import (
	"fmt"

	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/service"

	"github.com/spf13/cobra"
)

// 管理员只能通过命令行授予
func newPromoteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to a registered user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, db, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer closeDB(db)

			users := service.NewUserService(&mysql.UserRepository{DB: db}, nil, nil)
			user, err := users.Promote(background(cmd.Context()), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Username, user.Email)
			return nil
		},
	}
}
