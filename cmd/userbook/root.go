package main

import (
	"github.com/alfagnish/userbook/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "userbook",
		Short:         "User registration service backed by a JSON file",
		Version:       version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Load(v))
		},
	}

	f := cmd.PersistentFlags()
	f.String("listen", ":3000", "HTTP listen address")
	f.String("users-file", "users.json", "path of the JSON user store")
	f.String("static-dir", "public", "directory served for non-API paths")
	f.String("grpc-addr", "", "gRPC health listen address (disabled when empty)")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.Bool("log-development", false, "human-readable console logs")
	bindFlags(v, cmd, map[string]string{
		config.KeyListenAddr:     "listen",
		config.KeyUsersFile:      "users-file",
		config.KeyStaticDir:      "static-dir",
		config.KeyGRPCAddr:       "grpc-addr",
		config.KeyLogLevel:       "log-level",
		config.KeyLogDevelopment: "log-development",
	})

	cmd.AddCommand(newUsersCmd(v))
	return cmd
}

// bindFlags lets an explicitly set flag override the environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
