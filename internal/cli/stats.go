package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print lead and visit summaries",
	Long: `Print lead and visit summaries to the terminal.

Example:
  pagepulse stats`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	var totalLeads, totalVisits, converted, scrollRows int
	counts := []struct {
		dest  *int
		query string
	}{
		{&totalLeads, "SELECT COUNT(*) FROM leads"},
		{&totalVisits, "SELECT COUNT(*) FROM visits"},
		{&converted, "SELECT COUNT(*) FROM visits WHERE converted = TRUE"},
		{&scrollRows, "SELECT COUNT(*) FROM scroll_tracking"},
	}
	for _, c := range counts {
		if err := db.QueryRow(c.query).Scan(c.dest); err != nil {
			return fmt.Errorf("stats query failed: %w", err)
		}
	}

	fmt.Println("Pagepulse summary")
	fmt.Printf("  Leads:            %d\n", totalLeads)
	fmt.Printf("  Visits:           %d\n", totalVisits)
	fmt.Printf("  Converted visits: %d\n", converted)
	fmt.Printf("  Scroll records:   %d\n", scrollRows)

	if err := printTopRows(db, "Top cities", "SELECT city, COUNT(*) FROM leads GROUP BY city ORDER BY COUNT(*) DESC LIMIT 5"); err != nil {
		return err
	}
	return printTopRows(db, "Top referrers", "SELECT referrer, COUNT(*) FROM visits GROUP BY referrer ORDER BY COUNT(*) DESC LIMIT 5")
}

func printTopRows(db *sql.DB, title, query string) error {
	rows, err := db.Query(query)
	if err != nil {
		return fmt.Errorf("stats query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	fmt.Printf("\n%s:\n", title)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return err
		}
		fmt.Printf("  %-40s %d\n", label, count)
	}
	return rows.Err()
}

func init() {
	RootCmd.AddCommand(statsCmd)
}
