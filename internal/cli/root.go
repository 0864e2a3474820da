// Package cli wires the pagepulse commands.
package cli

import (
	"github.com/spf13/cobra"
)

var Version string

// Embedded tracker scripts passed from main.
var (
	VisitorScript []byte
	ScrollScript  []byte
)

// RootCmd represents the root command. Running the binary with no
// subcommand starts the server.
var RootCmd = &cobra.Command{
	Use:   "pagepulse",
	Short: "Landing page lead capture and visit analytics",
	Long: `Pagepulse - analytics backend for a marketing landing page.

Pagepulse captures leads, tracks visits and scroll depth, and serves
bearer-gated aggregation endpoints for the admin dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runServer()
		}
		return cmd.Help()
	},
}

// Execute is called by main.
func Execute(version string, visitorScript, scrollScript []byte) error {
	Version = version
	VisitorScript = visitorScript
	ScrollScript = scrollScript

	RootCmd.Version = version

	return RootCmd.Execute()
}
