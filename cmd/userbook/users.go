package main

import (
	"encoding/json"

	"github.com/alfagnish/userbook/internal/config"
	"github.com/alfagnish/userbook/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newUsersCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect the user store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every stored user as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load(v)
			list, err := users.NewService(users.NewFileStore(cfg.UsersFile)).GetAllUsers(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	})
	return cmd
}
