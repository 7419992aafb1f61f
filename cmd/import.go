package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bankroll/database"
	"bankroll/events"
	"bankroll/infrastructure/observability"
	"bankroll/repository"
	"bankroll/service"

	"github.com/pterm/pterm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <dir|file.csv>",
	Short: "Backfill sessions from CSV files",
	Long: `Import loads every *.csv in a directory (or a single file). Each file needs
the columns date,location,player,nickname,buy_in,cash_out and is imported in
its own transaction. Sessions are created completed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), args[0])
	},
}

func runImport(ctx context.Context, target string) error {
	files, err := collectCSVFiles(target)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		pterm.Warning.Printfln("No CSV files found in %s", target)
		return nil
	}

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Metrics unavailable during import")
	}
	defer observability.ShutdownGlobalMetrics(context.Background())

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	importService := service.NewImportService(repository.NewUnitOfWorkFactory(db, events.NewBus()))

	bar, _ := pterm.DefaultProgressbar.WithTotal(len(files)).WithTitle("Importing").Start()

	var total service.ImportResult
	var failed int
	for _, path := range files {
		bar.UpdateTitle(filepath.Base(path))

		result, err := importFile(ctx, importService, path)
		if err != nil {
			failed++
			pterm.Error.Printfln("%s: %v", filepath.Base(path), err)
			bar.Increment()
			continue
		}

		observability.GetMetrics().RecordImportRows(result.Rows-result.Skipped, result.Skipped)
		total.Rows += result.Rows
		total.Skipped += result.Skipped
		total.PlayersCreated += result.PlayersCreated
		total.SessionsCreated += result.SessionsCreated
		total.Transactions += result.Transactions
		bar.Increment()
	}
	_, _ = bar.Stop()

	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Files", "Rows", "Skipped", "Players", "Sessions", "Transactions"},
		{
			fmt.Sprint(len(files) - failed),
			fmt.Sprint(total.Rows),
			fmt.Sprint(total.Skipped),
			fmt.Sprint(total.PlayersCreated),
			fmt.Sprint(total.SessionsCreated),
			fmt.Sprint(total.Transactions),
		},
	}).Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(files))
	}
	pterm.Success.Println("Import complete")
	return nil
}

func importFile(ctx context.Context, importService service.ImportService, path string) (*service.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importService.ImportCSV(ctx, filepath.Base(path), f)
}

// collectCSVFiles returns target itself when it is a file, else the sorted *.csv files directly inside it
func collectCSVFiles(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(target, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
