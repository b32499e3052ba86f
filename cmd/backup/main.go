package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zahlentrainer/internal/config"
	"zahlentrainer/internal/database"
	"zahlentrainer/internal/logging"
	"zahlentrainer/internal/service"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Clear existing history before import (WARNING: destructive)")
	importYes := importCmd.Bool("yes", false, "Do not ask for confirmation when clearing")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		backupService, closeDB := openBackupService(cfg)
		defer closeDB()
		if err := handleExport(backupService, *exportOutput); err != nil {
			fatal("export failed", err)
		}

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		backupService, closeDB := openBackupService(cfg)
		defer closeDB()
		if err := handleImport(backupService, *importInput, *importClear, *importYes); err != nil {
			fatal("import failed", err)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func openBackupService(cfg *config.Config) (*service.BackupService, func()) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		fatal("failed to initialize database", err)
	}

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(context.Background()); err != nil {
		db.Close()
		fatal("failed to run migrations", err)
	}

	return service.NewBackupService(db), func() { db.Close() }
}

func handleExport(backupService *service.BackupService, outputPath string) error {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	backup, err := backupService.ExportToFile(context.Background(), outputPath)
	if err != nil {
		return err
	}

	fileInfo, err := os.Stat(outputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d records to %s (%.2f KB)\n", len(backup.Records), outputPath, float64(fileInfo.Size())/1024)
	return nil
}

func handleImport(backupService *service.BackupService, inputPath string, clearData, skipConfirm bool) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	if clearData && !skipConfirm {
		fmt.Print("WARNING: This will delete the existing practice history. Type 'yes' to confirm: ")
		confirmation, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(confirmation) != "yes" {
			fmt.Println("Import cancelled")
			return nil
		}
	}

	summary, err := backupService.ImportFromFile(context.Background(), inputPath, clearData)
	if err != nil {
		return err
	}

	fmt.Printf("Import complete: %d imported, %d skipped, %d cleared\n", summary.Imported, summary.Skipped, summary.Cleared)
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func printUsage() {
	fmt.Println("Zahlentrainer Practice History Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export practice history to a JSON file")
	fmt.Println("  backup import [options]    Import practice history from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Clear existing history before import (WARNING: destructive)")
	fmt.Println("  -yes              Skip the confirmation prompt for -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./zahlentrainer.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
