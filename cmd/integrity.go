package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"relationship-manager/feature/integrity"
	"relationship-manager/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// errUnhealthy is returned when a check ran and found problems.
var errUnhealthy = errors.New("integrity checks failed")

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the infrastructure behind the mirrors",
	Long: `Checks the fixture bucket layout, the published fixtures, the document store
schema and the search index. Checks without a configured connection are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, true, true, true)
	},
}

var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the fixture bucket and folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false, false, false)
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Check that the fixture file and object exist and decode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true, false, false)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the document store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, true, false)
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Check the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, fixturesCmd, schemaCmd, indexCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket and folders")
}

func runIntegrityChecks(cmd *cobra.Command, runStructure, runFixtures, runSchema, runIndex bool) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()
	logg := s.logger
	svc := integrity.NewService(s.deps, logg)
	healthy := true

	if runStructure {
		logg.Info("Checking bucket structure...")
		report, err := svc.CheckStructure(ctx)
		switch {
		case errors.Is(err, integrity.ErrNotConfigured):
			printWarn(w, "Structure check skipped: %v", err)
		case err != nil:
			return fmt.Errorf("structure check failed: %w", err)
		case report.IsHealthy():
			printOK(w, "Bucket %s and its folders exist", report.Bucket)
		default:
			if !report.BucketExists {
				printWarn(w, "Bucket %s does not exist", report.Bucket)
			}
			if len(report.Missing) > 0 {
				printWarn(w, "Missing folders: %s", strings.Join(report.Missing, ", "))
			}
			if fixFlag {
				logg.Info("Fixing bucket structure...")
				if err := svc.FixStructure(ctx, report); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				printOK(w, "Structure fixed")
			} else {
				healthy = false
				printf(w, "Run 'integrity structure --fix' to create them.\n")
			}
		}
	}

	if runFixtures {
		logg.Info("Checking fixtures...")
		reports := svc.CheckFixtures(ctx)
		if len(reports) == 0 {
			printWarn(w, "Fixture check skipped: no fixture locations configured")
		}
		healthy = printFixtures(w, reports) && healthy
	}

	if runSchema {
		logg.Info("Checking document store schema...")
		report, err := svc.CheckSchema()
		switch {
		case errors.Is(err, integrity.ErrNotConfigured):
			printWarn(w, "Schema check skipped: %v", err)
		case err != nil:
			return fmt.Errorf("schema check failed: %w", err)
		default:
			healthy = printSchema(w, logg, report) && healthy
		}
	}

	if runIndex {
		logg.Info("Checking search index...")
		report, err := svc.CheckIndex(ctx)
		switch {
		case errors.Is(err, integrity.ErrNotConfigured):
			printWarn(w, "Index check skipped: %v", err)
		case err != nil:
			return fmt.Errorf("index check failed: %w", err)
		case !report.Reachable:
			healthy = false
			printFail(w, "Search index %s unreachable: %s", report.Prefix, report.Error)
		default:
			printOK(w, "Search index %s holds %d artists and %d studios", report.Prefix, report.Artists, report.Studios)
		}
	}

	if !healthy {
		return errUnhealthy
	}
	return nil
}

func printFixtures(w io.Writer, reports []checks.FixtureReport) bool {
	if len(reports) == 0 {
		return true
	}
	healthy := true
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		status := "ok"
		switch {
		case !r.Present:
			status = "missing"
		case r.Error != "":
			status = "error: " + r.Error
		}
		if !r.IsHealthy() {
			healthy = false
		}
		rows = append(rows, []string{r.Source, r.Location, strconv.FormatInt(r.Size, 10), strconv.Itoa(r.Artists), strconv.Itoa(r.Studios), status})
	}
	printf(w, "%s\n", renderTable(
		[]string{"Source", "Location", "Bytes", "Artists", "Studios", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	if healthy {
		printOK(w, "Fixtures are present and decode")
	} else {
		printFail(w, "Some fixtures are missing or unreadable")
	}
	return healthy
}

func printSchema(w io.Writer, logg *zap.Logger, report *checks.SchemaReport) bool {
	tables := make([]string, 0, len(report.Tables))
	for name := range report.Tables {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	rows := make([][]string, 0, len(tables))
	for _, name := range tables {
		t := report.Tables[name]
		rows = append(rows, []string{name, t.Status, strings.Join(t.MissingColumns, ", "), strings.Join(t.TypeMismatches, "; ")})
	}
	printf(w, "%s\n", renderTable([]string{"Table", "Status", "Missing Columns", "Type Mismatches"}, rows, nil))
	for _, e := range report.Errors {
		logg.Error("Inspection error", zap.String("error", e))
	}

	if report.Matched {
		printOK(w, "Document store schema matches (%s)", report.Driver)
	} else {
		printFail(w, "Document store schema mismatches found (%s)", report.Driver)
	}
	return report.Matched
}
