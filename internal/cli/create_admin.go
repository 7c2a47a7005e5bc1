// Package cli implements the command line subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/libraryhub/libraryhub/internal/auth"
	"github.com/libraryhub/libraryhub/internal/config"
	"github.com/libraryhub/libraryhub/internal/database"
	"github.com/libraryhub/libraryhub/internal/database/tokens"
	"github.com/libraryhub/libraryhub/internal/database/users"
)

// CreateAdminCommand bootstraps an administrator account.
type CreateAdminCommand struct {
	Email        string
	Username     string
	Password     string
	DatabasePath string
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email address for the admin account (required)")
	fs.StringVar(&cmd.Username, "username", "", "Display name for the admin account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (prompted interactively when omitted)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -email <email> -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an administrator account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-admin -email admin@example.com -username admin\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	if cmd.Password == "" {
		password, err := promptPassword()
		if err != nil {
			return err
		}
		cmd.Password = password
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(users.NewRepository(db.DB), tokens.NewRepository(db.DB), cfg.Auth)

	user, err := service.CreateAdmin(cmd.Email, cmd.Username, cmd.Password)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Created admin account %s (id %d)\n", user.Email, user.ID)
	return nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
