package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "taskgroups.com/taskgroups/internal/configs"
	"taskgroups.com/taskgroups/internal/services"
	"taskgroups.com/taskgroups/pkg/logger"
)

var userdelCmd = &cobra.Command{
	Use:   "userdel <username>",
	Short: "Delete an account and all of its groups and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		zlog := logger.New(cfg.LogLevel)
		defer func() { _ = zlog.Sync() }()

		st, err := openStore(cfg, zlog)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		authService := services.NewAuthService(st, zlog)
		if err := authService.DeleteUser(context.Background(), args[0]); err != nil {
			return fmt.Errorf("delete user %q: %w", args[0], err)
		}

		fmt.Printf("deleted user %q\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userdelCmd)
}
