package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AlbertoMK/tier-app/internal/config"
	"github.com/AlbertoMK/tier-app/internal/database"
	"github.com/AlbertoMK/tier-app/internal/models"
	"github.com/AlbertoMK/tier-app/internal/repositories"
	"github.com/AlbertoMK/tier-app/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sheet string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-exercises <file.xlsx>",
		Short: "Load exercises from a spreadsheet into the catalog",
		Long: "Reads every row of the workbook (or a single sheet) and upserts the exercises by name. " +
			"The first row of each sheet must hold the column names.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], sheet, dryRun)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "only import this sheet")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without writing")

	return cmd
}

func runImport(cmd *cobra.Command, path, sheet string, dryRun bool) error {
	exercises, rowErrs, err := readWorkbook(path, sheet)
	if err != nil {
		return err
	}

	for _, rowErr := range rowErrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", rowErr)
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Parsed %d exercises (%d rows skipped).\n", len(exercises), len(rowErrs))
		return nil
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	written, err := repositories.NewExerciseRepository(db).Upsert(cmd.Context(), exercises)
	if err != nil {
		return fmt.Errorf("saving exercises: %w", err)
	}

	logger.Info("Exercise import finished", "file", path, "written", written, "skipped", len(rowErrs))
	fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d exercises.\n", written)
	return nil
}

// readWorkbook parses the exercise rows of every sheet, or only of sheet
// when it is set.
func readWorkbook(path, sheet string) ([]models.Exercise, []error, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet != "" {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			return nil, nil, fmt.Errorf("sheet %q not found", sheet)
		}
		sheets = []string{sheet}
	}

	var exercises []models.Exercise
	var rowErrs []error
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, nil, fmt.Errorf("reading sheet %s: %w", name, err)
		}

		parsed, errs := parseExerciseRows(name, rows)
		exercises = append(exercises, parsed...)
		rowErrs = append(rowErrs, errs...)
	}

	return exercises, rowErrs, nil
}

// parseExerciseRows maps data rows onto exercises using the header row.
// Header names are matched case-insensitively against the catalog's JSON
// attribute names; "name" is accepted for exercise_name.
func parseExerciseRows(sheet string, rows [][]string) ([]models.Exercise, []error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if key == "name" {
			key = "exercise_name"
		}
		columns[key] = i
	}

	if _, ok := columns["exercise_name"]; !ok {
		return nil, []error{fmt.Errorf("sheet %s: missing exercise_name column", sheet)}
	}
	if _, ok := columns["sets_type"]; !ok {
		return nil, []error{fmt.Errorf("sheet %s: missing sets_type column", sheet)}
	}

	cell := func(row []string, key string) string {
		i, ok := columns[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var exercises []models.Exercise
	var errs []error
	seen := map[string]bool{}

	for i, row := range rows[1:] {
		line := i + 2
		exercise := models.Exercise{
			Name:        cell(row, "exercise_name"),
			SetsType:    strings.ToLower(cell(row, "sets_type")),
			Difficulty:  strings.ToLower(cell(row, "difficulty")),
			MuscleGroup: cell(row, "muscle_group"),
			Equipment:   cell(row, "equipment"),
			Arm:         strings.ToLower(cell(row, "arm")),
			Grip:        cell(row, "grip"),
			BodyRegion:  strings.ToLower(cell(row, "body_region")),
		}

		if exercise.Name == "" {
			if len(strings.Join(row, "")) > 0 {
				errs = append(errs, fmt.Errorf("sheet %s row %d: missing exercise name", sheet, line))
			}
			continue
		}
		if err := exercise.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sheet %s row %d: %w", sheet, line, err))
			continue
		}
		if seen[exercise.Name] {
			errs = append(errs, fmt.Errorf("sheet %s row %d: duplicate exercise %q", sheet, line, exercise.Name))
			continue
		}

		seen[exercise.Name] = true
		exercises = append(exercises, exercise)
	}

	return exercises, errs
}
