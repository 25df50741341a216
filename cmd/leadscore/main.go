package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadscore",
		Short: "Score and rank seminar attendee companies as sales leads",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(leadsCmd())
	root.AddCommand(organizersCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(importCmd())

	return root
}

func leadsCmd() *cobra.Command {
	var (
		organizer     string
		topN          int
		windowDays    int
		industries    []string
		employeeSizes []string
		positions     []string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Rank an organizer's hottest attendee companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeads(organizer, topN, windowDays, industries, employeeSizes, positions, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&organizer, "organizer", "", "organizer code to analyze (required)")
	cmd.Flags().IntVar(&topN, "top", 0, "how many leads to rank (default: from config)")
	cmd.Flags().IntVar(&windowDays, "window-days", 0, "lookback window in days (default: from config)")
	cmd.Flags().StringSliceVar(&industries, "industry", nil, "industry filter (repeatable)")
	cmd.Flags().StringSliceVar(&employeeSizes, "employee-size", nil, "employee size filter (repeatable)")
	cmd.Flags().StringSliceVar(&positions, "position", nil, "position filter (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.MarkFlagRequired("organizer")
	return cmd
}

func organizersCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "organizers",
		Short: "List seminar organizers known to the warehouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizers(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func importCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import attendance rows from a CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(file)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file to import (required)")
	cmd.MarkFlagRequired("file")
	return cmd
}
