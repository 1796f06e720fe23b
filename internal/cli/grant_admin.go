// Package cli implements the maintenance commands that run outside the
// HTTP server.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/bookshelfapp/bookshelf/internal/auth"
	"github.com/bookshelfapp/bookshelf/internal/config"
	"github.com/bookshelfapp/bookshelf/internal/database"
	"github.com/bookshelfapp/bookshelf/internal/entities"
)

// GrantAdminCommand promotes an existing account to administrator.
// Every other privilege change goes through an admin in the web UI;
// this command exists to bootstrap the first one.
type GrantAdminCommand struct {
	Email        string
	DatabasePath string
}

func NewGrantAdminCommand() *GrantAdminCommand {
	return &GrantAdminCommand{}
}

func (cmd *GrantAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("grant-admin", flag.ExitOnError)

	fs.StringVar(&cmd.Email, "email", "", "Email of the account to promote (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s grant-admin -email <address> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Grant administrator privileges to an existing account.\n\n")
		fmt.Fprintf(os.Stderr, "The account must already exist: register through the web UI first,\n")
		fmt.Fprintf(os.Stderr, "then promote it here. Further admins can be granted from the admin\n")
		fmt.Fprintf(os.Stderr, "members page.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s grant-admin -email alice@example.com\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}

	return nil
}

func (cmd *GrantAdminCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	email := auth.NormalizeEmail(cmd.Email)
	result := db.DB.Model(&entities.User{}).
		Where("email = ?", email).
		Update("is_admin", true)
	if result.Error != nil {
		return fmt.Errorf("grant admin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no account found for %s (register through the web UI first)", email)
	}

	fmt.Printf("Granted admin privileges to %s\n", email)
	return nil
}
