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

var useraddCmd = &cobra.Command{
	Use:   "useradd <username> <password>",
	Short: "Provision an account",
	Args:  cobra.ExactArgs(2),
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
		user, err := authService.CreateUser(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("created user %q (id %d)\n", user.Username, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useraddCmd)
}
