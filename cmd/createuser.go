package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yatube/yatube/internal/api/auth"
)

var createUserCmdFlags struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

var createUserCmd = &cobra.Command{
	Use:     "createuser <username>",
	Short:   "Create a user account",
	Long:    `Create a user account that can log in with a password.`,
	Example: `yatube createuser leo --email leo@example.com --password war-and-peace`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(createUserCmdFlags.Password) < 8 {
			return errors.New("password must be at least 8 characters long")
		}

		_, db, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		user, err := auth.NewAuthenticator(db, nil).Register(cmd.Context(), auth.Account{
			Username:  args[0],
			Email:     createUserCmdFlags.Email,
			FirstName: createUserCmdFlags.FirstName,
			LastName:  createUserCmdFlags.LastName,
			Password:  createUserCmdFlags.Password,
		})
		if err != nil {
			return err
		}

		log.Info("User created", "username", user.Username, "id", user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Email, "email", "", "Email address of the user")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Password, "password", "", "Password of the user")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.FirstName, "first-name", "", "First name of the user")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.LastName, "last-name", "", "Last name of the user")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
}
