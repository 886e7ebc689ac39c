package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/figscan/pkg/host"
	"github.com/gnana997/figscan/pkg/identity"
	"github.com/gnana997/figscan/pkg/scan"
)

var (
	flagTargetKey  string
	flagTargetID   string
	flagTargetName string

	flagScanFile    string
	flagScanKeys    []string
	flagScanProject string
	flagInclude     []string
	flagExclude     []string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for usages of a component",
}

var scanLocalCmd = &cobra.Command{
	Use:   "local",
	Short: "Scan every page of a single file",
	Long: `Scan every page of one file for usages of a component defined in that
file. The component is selected by --id (its node id) or --name.`,
	Run: func(cmd *cobra.Command, args []string) {
		if flagScanFile == "" {
			exitErr(fmt.Errorf("--file is required"))
		}
		if flagTargetID == "" && flagTargetName == "" {
			exitErr(fmt.Errorf("select the component with --id or --name"))
		}

		client := newClient()
		orch := newOrchestrator(client, nil, nil)
		ctx, stop := watchInterrupt(orch)
		defer stop()

		file, err := client.FetchFile(ctx, flagScanFile)
		if err != nil {
			exitErr(err)
		}
		doc := host.FromFile(file)
		def := host.FindComponentDef(doc, flagTargetID, flagTargetName)
		if def != nil {
			doc.Selected = []host.Node{def}
		}

		go reportProgress(orch)
		sess, err := orch.ScanLocal(ctx, doc)
		finishScan(sess, err)
	},
}

var scanFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "Scan an explicit list of file keys",
	Run: func(cmd *cobra.Command, args []string) {
		target, err := targetFromFlags()
		if err != nil {
			exitErr(err)
		}
		if len(flagScanKeys) == 0 {
			exitErr(fmt.Errorf("--keys is required"))
		}

		orch := newOrchestrator(newClient(), nil, nil)
		ctx, stop := watchInterrupt(orch)
		defer stop()

		go reportProgress(orch)
		sess, err := orch.ScanFiles(ctx, target, flagScanKeys)
		finishScan(sess, err)
	},
}

var scanProjectCmd = &cobra.Command{
	Use:   "project",
	Short: "Discover and scan every file in a project",
	Run: func(cmd *cobra.Command, args []string) {
		target, err := targetFromFlags()
		if err != nil {
			exitErr(err)
		}
		projectID := flagScanProject
		if projectID == "" && projectCfg != nil {
			projectID = projectCfg.Project
		}
		if projectID == "" {
			exitErr(fmt.Errorf("--project is required"))
		}

		orch := newOrchestrator(newClient(), flagInclude, flagExclude)
		ctx, stop := watchInterrupt(orch)
		defer stop()

		go reportProgress(orch)
		sess, err := orch.ScanProject(ctx, target, projectID)
		finishScan(sess, err)
	},
}

func init() {
	for _, c := range []*cobra.Command{scanFilesCmd, scanProjectCmd} {
		c.Flags().StringVar(&flagTargetKey, "key", "", "target component content key (cross-file identity)")
		c.Flags().StringVar(&flagTargetID, "id", "", "target component node id (same-file identity)")
		c.Flags().StringVar(&flagTargetName, "name", "", "target component display name (fallback identity)")
	}
	scanLocalCmd.Flags().StringVar(&flagScanFile, "file", "", "file key to scan")
	scanLocalCmd.Flags().StringVar(&flagTargetID, "id", "", "target component node id")
	scanLocalCmd.Flags().StringVar(&flagTargetName, "name", "", "target component display name")

	scanFilesCmd.Flags().StringSliceVar(&flagScanKeys, "keys", nil, "file keys to scan")

	scanProjectCmd.Flags().StringVar(&flagScanProject, "project", "", "project id to discover files from")
	scanProjectCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "glob patterns of file names to include")
	scanProjectCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns of file names to exclude")

	scanCmd.AddCommand(scanLocalCmd, scanFilesCmd, scanProjectCmd)
	rootCmd.AddCommand(scanCmd)
}

func targetFromFlags() (identity.Target, error) {
	t := identity.Target{
		ContentKey:  flagTargetKey,
		StableID:    flagTargetID,
		DisplayName: flagTargetName,
	}
	if t.ContentKey == "" && t.StableID == "" && t.DisplayName == "" {
		return t, fmt.Errorf("target identity required: provide --key, --id, or --name")
	}
	return t, nil
}

// watchInterrupt cancels the active scan on the first interrupt so the
// partial result is kept; a second interrupt kills the process.
func watchInterrupt(orch *scan.Orchestrator) (context.Context, func()) {
	ctx := context.Background()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "cancelling scan, keeping partial results (interrupt again to kill)")
		orch.Cancel()
		<-sigCh
		os.Exit(130)
	}()
	return ctx, func() { signal.Stop(sigCh) }
}

// reportProgress mirrors progress events to stderr.
func reportProgress(orch *scan.Orchestrator) {
	for p := range orch.Progress() {
		switch {
		case p.FilesTotal > 0:
			fmt.Fprintf(os.Stderr, "[%s] %s (%d/%d files, %d found)\n",
				p.Stage, p.Message, p.FilesDone, p.FilesTotal, p.Found)
		case p.PagesTotal > 0:
			fmt.Fprintf(os.Stderr, "[%s] %s (%d/%d pages, %d found)\n",
				p.Stage, p.Message, p.PagesDone, p.PagesTotal, p.Found)
		default:
			fmt.Fprintf(os.Stderr, "[%s] %s\n", p.Stage, p.Message)
		}
	}
}

// finishScan persists and summarizes a finished session.
func finishScan(sess *scan.Session, err error) {
	if err != nil {
		exitErr(err)
	}

	if sess.Persistable() {
		st, closeStore, storeErr := openStore()
		if storeErr != nil {
			logger.Warn("session store unavailable", "error", storeErr)
		} else {
			if putErr := st.Put(sess); putErr != nil {
				logger.Warn("failed to persist session", "session", sess.ID, "error", putErr)
			}
			closeStore()
		}
	}

	status := string(sess.State)
	if sess.Cancelled {
		status = "aborted (partial result)"
	}
	fmt.Printf("Session %s: %s\n", sess.ID, status)
	fmt.Printf("Instances found: %d\n", sess.TotalInstances())
	fmt.Printf("Files scanned: %d", sess.FilesScanned)
	if sess.FilesSkipped > 0 {
		reasons := make([]string, 0, len(sess.SkippedByReason))
		for reason, n := range sess.SkippedByReason {
			reasons = append(reasons, fmt.Sprintf("%s: %d", reason, n))
		}
		sort.Strings(reasons)
		fmt.Printf(" (%d skipped: %s)", sess.FilesSkipped, strings.Join(reasons, ", "))
	}
	fmt.Printf("\nDuration: %dms\n", sess.DurationMs)
}
