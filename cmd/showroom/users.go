package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/artpar/showroom/adapters/hasher"
	"github.com/artpar/showroom/adapters/sqlite"
	"github.com/artpar/showroom/config"
	"github.com/artpar/showroom/domain/auth"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage back-office accounts",
	Long: `Manage Showroom back-office accounts.

Accounts sign in to the admin API. Admins manage the catalog and other
accounts; owners get a read-mostly view of the dashboard.

Examples:
  showroom users list
  showroom users create --username=priya --email=priya@example.com --role=admin
  showroom users delete 3`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE:  runUsersList,
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE:  runUsersCreate,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

var (
	userName     string
	userEmail    string
	userRole     string
	userPassword string
)

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersCreateCmd.Flags().StringVar(&userName, "username", "", "username (required)")
	usersCreateCmd.Flags().StringVar(&userEmail, "email", "", "email (required)")
	usersCreateCmd.Flags().StringVar(&userRole, "role", auth.RoleOwner, "role: admin or owner")
	usersCreateCmd.Flags().StringVar(&userPassword, "password", "", "password (auto-generated if not provided)")
	usersCreateCmd.MarkFlagRequired("username")
	usersCreateCmd.MarkFlagRequired("email")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := sqlite.NewUserStore(db).List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No accounts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return w.Flush()
}

func runUsersCreate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	password := userPassword
	if password == "" {
		password = generatePassword()
	}

	if !auth.ValidRole(userRole) {
		return fmt.Errorf("invalid role: %s", userRole)
	}

	hash, err := hasher.NewBcrypt(cfg.Auth.BcryptCost).Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ctx := context.Background()
	userStore := sqlite.NewUserStore(db)

	if _, err := userStore.GetByUsername(ctx, userName); err == nil {
		return fmt.Errorf("username already taken: %s", userName)
	}
	if _, err := userStore.GetByEmail(ctx, userEmail); err == nil {
		return fmt.Errorf("email already registered: %s", userEmail)
	}

	id, err := userStore.Create(ctx, auth.User{
		Username:     userName,
		Email:        userEmail,
		PasswordHash: hash,
		Role:         userRole,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("%s Created account: %s (id %d)\n", checkMark, userName, id)
	if userPassword == "" {
		fmt.Println()
		fmt.Println("Generated password (save it, shown once):")
		fmt.Printf("  %s\n", password)
	}
	return nil
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user ID: %s", args[0])
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	userStore := sqlite.NewUserStore(db)
	user, err := userStore.Get(context.Background(), id)
	if err != nil {
		return fmt.Errorf("user not found: %d", id)
	}

	if err := userStore.Delete(context.Background(), id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	fmt.Printf("%s Deleted account: %s\n", checkMark, user.Username)
	return nil
}

func openDatabase() (*sqlite.DB, error) {
	// Load config to get database path
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}
