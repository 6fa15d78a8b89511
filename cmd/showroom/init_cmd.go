package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/artpar/showroom/bootstrap"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long: `Initialize Showroom with an interactive setup wizard.

This will:
  1. Ask for your public base URL and company name
  2. Configure database location
  3. Create initial configuration file
  4. Create the first admin account
  5. Seed the contact page and starter categories

Examples:
  showroom init
  showroom init --config /etc/showroom/config.yaml`,
	RunE: runInit,
}

var (
	initBaseURL        string
	initDatabase       string
	initCompany        string
	initAdminUser      string
	initAdminEmail     string
	initAdminPassword  string
	initNonInteractive bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "public base URL used in QR codes")
	initCmd.Flags().StringVar(&initDatabase, "database", "showroom.db", "database file path")
	initCmd.Flags().StringVar(&initCompany, "company", "", "company name shown on the contact page")
	initCmd.Flags().StringVar(&initAdminUser, "admin-user", "admin", "admin username")
	initCmd.Flags().StringVar(&initAdminEmail, "admin-email", "", "admin email")
	initCmd.Flags().StringVar(&initAdminPassword, "admin-password", "", "admin password (auto-generated if not provided)")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "run without prompts (requires --admin-email)")
}

func runInit(cmd *cobra.Command, args []string) error {
	fmt.Println("Welcome to Showroom!")
	fmt.Println()

	// Check if config already exists
	if _, err := os.Stat(cfgFile); err == nil {
		fmt.Printf("Configuration file already exists: %s\n", cfgFile)
		if !confirm("Overwrite?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	reader := bufio.NewReader(os.Stdin)

	baseURL := initBaseURL
	if baseURL == "" && !initNonInteractive {
		baseURL = prompt(reader, "Public base URL", "http://localhost:8080")
	}

	database := initDatabase
	if !initNonInteractive && initDatabase == "showroom.db" {
		database = prompt(reader, "Database location", "showroom.db")
	}

	company := initCompany
	if company == "" && !initNonInteractive {
		company = prompt(reader, "Company name", "Showroom")
	}

	adminEmail := initAdminEmail
	if adminEmail == "" {
		if initNonInteractive {
			return fmt.Errorf("--admin-email is required in non-interactive mode")
		}
		adminEmail = prompt(reader, "Admin email", "")
		if adminEmail == "" {
			return fmt.Errorf("admin email is required")
		}
	}

	adminPassword := initAdminPassword
	if adminPassword == "" {
		adminPassword = generatePassword()
	}

	if err := os.WriteFile(cfgFile, []byte(generateConfig(baseURL, database, company)), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Printf("\n%s Generated %s\n", checkMark, cfgFile)

	// Create database, run migrations and seed defaults
	app, err := bootstrap.New(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Shutdown()

	if err := app.SeedDefaults(context.Background(), initAdminUser, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}
	fmt.Printf("%s Created database %s\n", checkMark, database)
	fmt.Printf("%s Created admin user: %s\n", checkMark, initAdminUser)

	fmt.Println()
	fmt.Println("Admin credentials (save these, shown once):")
	fmt.Printf("  Username: %s\n", initAdminUser)
	fmt.Printf("  Password: %s\n", adminPassword)

	fmt.Println()
	fmt.Println("Run 'showroom serve' to start the catalog server.")
	fmt.Println()
	fmt.Println("Access points:")
	fmt.Println("  Catalog:   http://localhost:8080/")
	fmt.Println("  Admin API: http://localhost:8080/admin/api/")

	return nil
}

func generateConfig(baseURL, database, company string) string {
	var b strings.Builder

	b.WriteString("# Showroom configuration\n\n")
	b.WriteString("server:\n")
	b.WriteString("  host: 0.0.0.0\n")
	b.WriteString("  port: 8080\n\n")

	b.WriteString("site:\n")
	if baseURL != "" {
		fmt.Fprintf(&b, "  base_url: %s\n", baseURL)
	}
	if company != "" {
		fmt.Fprintf(&b, "  company_name: %s\n", company)
	}
	b.WriteString("\n")

	b.WriteString("database:\n")
	b.WriteString("  driver: sqlite\n")
	fmt.Fprintf(&b, "  dsn: %s\n\n", database)

	b.WriteString("tracking:\n")
	b.WriteString("  window_days: 30\n\n")

	b.WriteString("logging:\n")
	b.WriteString("  level: info\n")
	b.WriteString("  format: json\n\n")

	b.WriteString("metrics:\n")
	b.WriteString("  enabled: true\n")
	b.WriteString("  path: /metrics\n")

	return b.String()
}

func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("? %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("? %s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

func confirm(message string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("? %s [y/N]: ", message)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

func generatePassword() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
