package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a pagepulse.toml config file",
	Long: `Interactively create a pagepulse.toml in the current directory.

Prompts for the database URL and the admin password (the password is
read without echo).`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat("pagepulse.toml"); err == nil {
		return fmt.Errorf("pagepulse.toml already exists, remove it first")
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("PostgreSQL connection URL: ")
	databaseURL, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return fmt.Errorf("database URL is required")
	}

	fmt.Print("Server port [3000]: ")
	port, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	port = strings.TrimSpace(port)
	if port == "" {
		port = "3000"
	}

	fmt.Print("Admin password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimSpace(string(passwordBytes))
	if password == "" {
		return fmt.Errorf("admin password is required")
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database_url", databaseURL)
	v.Set("port", port)
	v.Set("admin_password", password)
	v.Set("secure_cookies", true)

	if err := v.WriteConfigAs("pagepulse.toml"); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Println("Wrote pagepulse.toml")
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
