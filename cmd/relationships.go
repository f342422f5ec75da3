package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"relationship-manager/core/reconcile"
	"relationship-manager/feature/relationships"
	"relationship-manager/feature/relationships/integrity"
	"relationship-manager/feature/relationships/repair"

	"github.com/spf13/cobra"
)

var (
	jsonOutput   bool
	dryRunFlag   bool
	applyDrift   bool
	yesConfirm   bool
	maxIssueRows = 20
)

// relationshipsCmd is the parent command for dataset operations.
var relationshipsCmd = &cobra.Command{
	Use:     "relationships",
	Aliases: []string{"rel"},
	Short:   "Validate, repair and rebuild studio/artist relationships",
	Long: `Operates on the dataset read from the configured source mirror.
Mutating commands persist to the source first, then to every configured mirror,
and hold the lock file for their whole duration.`,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every artist and studio reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, false, func(ctx context.Context, svc *relationships.Service) error {
			report, err := svc.Validate(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				printValidation(cmd.OutOrStdout(), report)
			}
			return verdict(report)
		})
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix dangling references, duplicates, orphans and empty studios",
	Long: `Runs one repair pass over the source dataset and persists the result to the
source and every configured mirror. Exits non-zero if errors remain afterwards.

Examples:
  # Show what would change
  relationships repair --dry-run

  # Repair and publish everywhere
  relationships repair`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, !dryRunFlag, func(ctx context.Context, svc *relationships.Service) error {
			result, err := svc.Repair(ctx, dryRunFlag)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printRepair(cmd.OutOrStdout(), result)
			}
			return verdict(result.Report.Validation)
		})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Discard relationships and assign every artist afresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, !dryRunFlag, func(ctx context.Context, svc *relationships.Service) error {
			result, err := svc.Rebuild(ctx, dryRunFlag)
			if err != nil {
				return err
			}
			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				printRebuild(cmd.OutOrStdout(), result)
			}
			return verdict(result.Validation)
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Per-studio summary with validation totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, false, func(ctx context.Context, svc *relationships.Service) error {
			overview, err := svc.Overview(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), overview)
			}
			printOverview(cmd.OutOrStdout(), overview)
			return nil
		})
	},
}

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Compare the mirrors' relationship fields with the source",
	Long: `Loads the source and every configured mirror concurrently and compares each
entity's relationship fields. With --apply, drifted mirrors get the source
dataset republished. The source itself is never written.

Examples:
  # Report only
  relationships drift

  # Republish with interactive confirmation
  relationships drift --apply

  # Republish without prompting
  relationships drift --apply --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apply := applyDrift && !dryRunFlag
		return withService(cmd, apply, func(ctx context.Context, svc *relationships.Service) error {
			plan, _, err := svc.Drift(ctx, false)
			if err != nil {
				return err
			}
			if !apply || len(plan.Actions) == 0 {
				return printDrift(cmd, plan, 0)
			}

			if !printDriftAndConfirm(cmd, plan) {
				printWarn(cmd.OutOrStdout(), "Operation cancelled. No changes were made.")
				return nil
			}
			plan, executed, err := svc.Drift(ctx, true)
			if err != nil {
				return fmt.Errorf("failed to apply drift plan: %w", err)
			}
			return printDrift(cmd, plan, executed)
		})
	},
}

func init() {
	relationshipsCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	repairCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Report without persisting")
	rebuildCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Report without persisting")
	driftCmd.Flags().BoolVar(&applyDrift, "apply", false, "Republish the source dataset to drifted mirrors")
	driftCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm republishing (non-interactive)")
	driftCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Force report-only even with --apply")

	relationshipsCmd.AddCommand(validateCmd, repairCmd, rebuildCmd, reportCmd, driftCmd)
	RootCmd.AddCommand(relationshipsCmd)
}

// withService opens a session, builds the service and runs fn. When locked
// is set the writer lock is held around fn.
func withService(cmd *cobra.Command, locked bool, fn func(context.Context, *relationships.Service) error) error {
	s, err := newSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	if locked {
		release, err := acquireLock(s.cfg.Relationships.LockFile)
		if err != nil {
			return err
		}
		defer release()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := s.service(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

// verdict turns a report with errors into a non-nil error.
func verdict(report integrity.Report) error {
	if report.Valid {
		return nil
	}
	return &integrity.ValidationError{Issues: report.Errors}
}

func printValidation(w io.Writer, report integrity.Report) {
	s := report.Summary
	printHeading(w, "Relationship Validation")
	printf(w, "%s\n", renderTable(
		[]string{"Artists", "Studios", "Assigned", "Orphaned", "Empty Studios", "Errors", "Warnings"},
		[][]string{{
			strconv.Itoa(s.Artists), strconv.Itoa(s.Studios), strconv.Itoa(s.Assigned),
			strconv.Itoa(s.Orphaned), strconv.Itoa(s.EmptyStudios),
			strconv.Itoa(s.Errors), strconv.Itoa(s.Warnings),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	issues := append(append([]integrity.Issue{}, report.Errors...), report.Warnings...)
	if len(issues) > 0 {
		rows := make([][]string, 0, maxIssueRows)
		for i, issue := range issues {
			if i == maxIssueRows {
				break
			}
			rows = append(rows, []string{string(issue.Severity), string(issue.Code), issue.ArtistID, issue.StudioID, issue.Message})
		}
		printf(w, "%s\n", renderTable([]string{"Severity", "Code", "Artist", "Studio", "Message"}, rows, nil))
		if len(issues) > maxIssueRows {
			printf(w, "... and %d more\n", len(issues)-maxIssueRows)
		}
	}

	if report.Valid {
		printOK(w, "Relationships are consistent (%d warnings)", len(report.Warnings))
	} else {
		printFail(w, "Relationships are inconsistent: %d errors", len(report.Errors))
	}
}

func printRepair(w io.Writer, result *relationships.RepairResult) {
	r := result.Report
	printHeading(w, "Repair")
	printf(w, "%s\n", renderTable(
		[]string{"Fix", "Count"},
		[][]string{
			{"Dangling references removed", strconv.Itoa(r.DanglingReferencesRemoved)},
			{"Duplicates resolved", strconv.Itoa(r.DuplicatesResolved)},
			{"Orphans assigned", strconv.Itoa(r.OrphansAssigned)},
			{"Empty studios populated", strconv.Itoa(r.EmptyStudiosPopulated)},
			{"Stale fields refreshed", strconv.Itoa(r.StaleFieldsRefreshed)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))
	printChanges(w, r.Changes)

	switch {
	case r.IsEmpty():
		printOK(w, "Nothing to repair")
	case result.DryRun:
		printWarn(w, "Dry-run: no changes were persisted")
	default:
		printOK(w, "Persisted to %s", strings.Join(result.Persisted, ", "))
	}
	printValidation(w, r.Validation)
}

func printChanges(w io.Writer, changes []repair.Change) {
	if len(changes) == 0 {
		return
	}
	rows := make([][]string, 0, len(changes))
	for i, c := range changes {
		if i == maxIssueRows {
			break
		}
		rows = append(rows, []string{string(c.Kind), c.ArtistID, c.From, c.To})
	}
	printf(w, "%s\n", renderTable([]string{"Change", "Artist", "From", "To"}, rows, nil))
	if len(changes) > maxIssueRows {
		printf(w, "... and %d more\n", len(changes)-maxIssueRows)
	}
}

func printRebuild(w io.Writer, result *relationships.RebuildResult) {
	a := result.Assignment
	printHeading(w, "Rebuild")
	rows := make([][]string, 0, len(a.Loads))
	for _, l := range a.Loads {
		rows = append(rows, []string{l.StudioID, strconv.Itoa(l.Count)})
	}
	printf(w, "%s\n", renderTable([]string{"Studio", "Artists"}, rows, []columnAlignment{alignLeft, alignRight}))
	printf(w, "Fallback assigned: %d\n", a.FallbackAssigned)
	if len(a.Unassigned) > 0 {
		printWarn(w, "Unassigned artists (all studios at capacity): %s", strings.Join(a.Unassigned, ", "))
	}
	if len(a.EmptyStudios) > 0 {
		printWarn(w, "Studios left empty: %s", strings.Join(a.EmptyStudios, ", "))
	}
	if result.DryRun {
		printWarn(w, "Dry-run: no changes were persisted")
	} else {
		printOK(w, "Persisted to %s", strings.Join(result.Persisted, ", "))
	}
	printValidation(w, result.Validation)
}

func printOverview(w io.Writer, o *relationships.Overview) {
	printHeading(w, "Studios")
	rows := make([][]string, 0, len(o.Studios))
	for _, st := range o.Studios {
		capacity := fmt.Sprintf("%d-%d", st.MinArtists, st.MaxArtists)
		if st.MaxArtists <= 0 {
			capacity = fmt.Sprintf("%d+", st.MinArtists)
		}
		rows = append(rows, []string{
			st.StudioID, st.StudioName, st.Location,
			strconv.Itoa(st.Artists), capacity, strings.Join(st.Specialties, ", "),
		})
	}
	printf(w, "%s\n", renderTable(
		[]string{"ID", "Name", "Location", "Artists", "Capacity", "Specialties"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))

	v := o.Validation
	printf(w, "Artists: %d  Assigned: %d  Orphaned: %d  Empty studios: %d\n", v.Artists, v.Assigned, v.Orphaned, v.EmptyStudios)
	if o.Valid {
		printOK(w, "Relationships are consistent (%d warnings)", v.Warnings)
	} else {
		printFail(w, "Relationships are inconsistent: %d errors", v.Errors)
	}
}

func printDrift(cmd *cobra.Command, plan *reconcile.ReconcilePlan, executed int) error {
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), struct {
			Plan     *reconcile.ReconcilePlan `json:"plan"`
			Executed int                      `json:"executed"`
		}{plan, executed})
	}

	w := cmd.OutOrStdout()
	s := plan.Summary
	printHeading(w, "Mirror Drift")

	sources := make([]string, 0, len(s.Missing)+len(s.Extra))
	seen := make(map[string]struct{})
	for _, m := range []map[string]int{s.Missing, s.Extra} {
		for src := range m {
			if _, ok := seen[src]; !ok {
				seen[src] = struct{}{}
				sources = append(sources, src)
			}
		}
	}
	sort.Strings(sources)
	rows := make([][]string, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, []string{src, strconv.Itoa(s.Missing[src]), strconv.Itoa(s.Extra[src])})
	}
	if len(rows) > 0 {
		printf(w, "%s\n", renderTable([]string{"Mirror", "Missing", "Extra"}, rows, []columnAlignment{alignLeft, alignRight, alignRight}))
	}
	printf(w, "Entities: %d  In sync: %d  Mismatches: %d\n", s.TotalItems, s.InSync, s.Mismatches)

	switch {
	case executed > 0:
		printOK(w, "Executed %d actions", executed)
	case s.InSync == s.TotalItems:
		printOK(w, "All mirrors match the source")
	case applyDrift && !dryRunFlag:
		printWarn(w, "No actions were executed")
	default:
		printWarn(w, "%d planned actions (%d sync, %d purge). Use --apply to republish.", len(plan.Actions), s.SyncActions, s.PurgeActions)
	}
	return nil
}

// printDriftAndConfirm shows a sample of the planned actions and asks for
// confirmation unless --yes was given.
func printDriftAndConfirm(cmd *cobra.Command, plan *reconcile.ReconcilePlan) bool {
	w := cmd.OutOrStdout()
	maxShow := 5
	if len(plan.Actions) < maxShow {
		maxShow = len(plan.Actions)
	}
	rows := make([][]string, 0, maxShow)
	for _, a := range plan.Actions[:maxShow] {
		rows = append(rows, []string{string(a.Type), a.Source, a.Key, a.Reason})
	}
	printf(w, "%s\n", renderTable([]string{"Action", "Mirror", "Key", "Reason"}, rows, nil))
	if len(plan.Actions) > maxShow {
		printf(w, "... and %d more\n", len(plan.Actions)-maxShow)
	}

	if yesConfirm {
		printOK(w, "Auto-confirmed via --yes flag")
		return true
	}

	printWarn(w, "Type 'yes' to republish the source dataset to drifted mirrors: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
