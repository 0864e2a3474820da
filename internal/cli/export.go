package cli

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/database"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [leads|visits]",
	Short: "Export leads or visits as CSV",
	Long: `Export leads or visits as CSV to stdout or a file.

Example:
  pagepulse export leads
  pagepulse export visits --out visits.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"leads", "visits"},
	RunE:      runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
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

	out := os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w := csv.NewWriter(out)
	defer w.Flush()

	switch args[0] {
	case "leads":
		return exportLeads(db, w)
	case "visits":
		return exportVisits(db, w)
	default:
		return fmt.Errorf("unknown export target %q", args[0])
	}
}

func exportLeads(db *sql.DB, w *csv.Writer) error {
	if err := w.Write([]string{"id", "name", "whatsapp", "email", "city", "device", "ip", "created_at"}); err != nil {
		return err
	}

	rows, err := db.Query(`
		SELECT id, name, whatsapp, email, city, device, ip, created_at
		FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return fmt.Errorf("export query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		var name, whatsapp, email, city, device, ip string
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &whatsapp, &email, &city, &device, &ip, &createdAt); err != nil {
			return err
		}
		record := []string{
			fmt.Sprintf("%d", id), name, whatsapp, email, city, device, ip,
			createdAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return rows.Err()
}

func exportVisits(db *sql.DB, w *csv.Writer) error {
	if err := w.Write([]string{
		"id", "ip", "device", "country", "referrer", "utm_source", "utm_medium",
		"utm_campaign", "session_id", "converted", "lead_id", "visit_duration",
		"created_at", "converted_at",
	}); err != nil {
		return err
	}

	rows, err := db.Query(`
		SELECT id, ip, device, COALESCE(country, ''), referrer,
			COALESCE(utm_source, ''), COALESCE(utm_medium, ''), COALESCE(utm_campaign, ''),
			session_id, converted, lead_id, visit_duration, created_at, converted_at
		FROM visits ORDER BY created_at DESC`)
	if err != nil {
		return fmt.Errorf("export query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		var ip, device, country, referrer, utmSource, utmMedium, utmCampaign, sessionID string
		var converted bool
		var leadID sql.NullInt64
		var duration sql.NullInt64
		var createdAt time.Time
		var convertedAt sql.NullTime
		if err := rows.Scan(&id, &ip, &device, &country, &referrer,
			&utmSource, &utmMedium, &utmCampaign, &sessionID,
			&converted, &leadID, &duration, &createdAt, &convertedAt); err != nil {
			return err
		}

		leadStr := ""
		if leadID.Valid {
			leadStr = fmt.Sprintf("%d", leadID.Int64)
		}
		durationStr := ""
		if duration.Valid {
			durationStr = fmt.Sprintf("%d", duration.Int64)
		}
		convertedAtStr := ""
		if convertedAt.Valid {
			convertedAtStr = convertedAt.Time.Format(time.RFC3339)
		}

		record := []string{
			fmt.Sprintf("%d", id), ip, device, country, referrer,
			utmSource, utmMedium, utmCampaign, sessionID,
			fmt.Sprintf("%t", converted), leadStr, durationStr,
			createdAt.Format(time.RFC3339), convertedAtStr,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return rows.Err()
}

func init() {
	exportCmd.Flags().StringVar(&exportOutput, "out", "", "Write CSV to this file instead of stdout")
	RootCmd.AddCommand(exportCmd)
}
