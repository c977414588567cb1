package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tgrid [dbname] [table]",
	Short: "tgrid is a sortable, filterable grid over database tables",
	Long: `tgrid presents database tables as an interactive grid with sorting,
filtering, grouping, paging and in-place cell editing.

Examples:
  tgrid test users
  tgrid app.sqlite orders --page-size 200
  tgrid test users --plain`,
	Args: cobra.MaximumNArgs(2),
	Run:  runTgrid,
}

var (
	host     string
	port     string
	username string
	password string
	pageSize int
	plain    bool
	vimMode  bool
)

func init() {
	rootCmd.Flags().BoolP("help", "", false, "help for tgrid")
	rootCmd.Flags().StringVarP(&host, "host", "h", "", "Database host")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Database port")
	rootCmd.Flags().StringVarP(&username, "username", "U", "", "Database username")
	rootCmd.Flags().StringVarP(&password, "password", "W", "", "Database password")
	rootCmd.Flags().IntVar(&pageSize, "page-size", 500, "Rows per page")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "Render the first page to stdout and exit")
	rootCmd.Flags().BoolVar(&vimMode, "vim", false, "Vim-style navigation keys")
}

func runTgrid(cmd *cobra.Command, args []string) {
	settings, err := LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	if !settings.FirstRunComplete {
		settings.FirstRunComplete = true
		if err := SaveSettings(settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving settings: %v\n", err)
		}
	}

	if dsn := os.Getenv("TGRID_SENTRY_DSN"); dsn != "" && settings.TelemetryEnabled {
		if err := InitSentry(dsn); err != nil {
			fmt.Fprintf(os.Stderr, "Telemetry disabled: %v\n", err)
		} else {
			defer FlushAndShutdown()
		}
	}
	InitBreadcrumbs(100)

	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: must specify a database\n")
		os.Exit(1)
	}
	dbname := args[0]
	tablename := ""
	if len(args) >= 2 {
		tablename = args[1]
	}

	config := &Config{
		Database: dbname,
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		PageSize: pageSize,
		Plain:    plain,
		VimMode:  vimMode,
	}

	if plain {
		if tablename == "" {
			fmt.Fprintf(os.Stderr, "Error: --plain requires a table\n")
			os.Exit(1)
		}
		if err := renderPlain(config, tablename, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := runApp(config, dbname, tablename); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
