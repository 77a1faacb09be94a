package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/inventory_system/internal/events"
	"github.com/Skotchmaster/inventory_system/internal/service"
	"github.com/Skotchmaster/inventory_system/internal/transport"
	"github.com/Skotchmaster/inventory_system/pkg/principal"
	"github.com/Skotchmaster/inventory_system/pkg/tokens"
)

// inventory migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		rt.logger.Info("migrate_success")
		return nil
	},
}

var adminFlags struct {
	username string
	email    string
	password string
}

// inventory create-admin --username --email --password
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Register a user with the ADMIN role",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()

		// the token service is only needed to satisfy the constructor
		ts, err := tokens.NewService(rt.cfg.JWTSecret)
		if err != nil {
			return err
		}
		svc := service.NewAuthService(rt.repo, ts, events.Noop{})

		u, err := svc.Register(cmd.Context(), transport.RegisterRequest{
			Username: adminFlags.username,
			Email:    adminFlags.email,
			Password: adminFlags.password,
			Role:     principal.RoleAdmin.String(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.username, "username", "", "admin username")
	f.StringVar(&adminFlags.email, "email", "", "admin email")
	f.StringVar(&adminFlags.password, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
