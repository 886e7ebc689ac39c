package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/figscan/pkg/export"
	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/store"
)

var (
	flagExportFormat  string
	flagExportSession string
	flagExportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored session as json, csv, or html",
	Run: func(cmd *cobra.Command, args []string) {
		format, err := export.ParseFormat(flagExportFormat)
		if err != nil {
			exitErr(err)
		}

		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		var sess *scan.Session
		if flagExportSession == "" {
			sess, err = st.Latest()
			if err == store.ErrNotFound {
				exitErr(fmt.Errorf("no stored sessions to export"))
			}
		} else {
			sess, err = st.Get(flagExportSession)
		}
		if err != nil {
			exitErr(err)
		}

		out, err := export.Export(sess, format)
		if err != nil {
			exitErr(err)
		}

		if flagExportOut == "" {
			fmt.Print(out)
			return
		}
		if err := os.WriteFile(flagExportOut, []byte(out), 0o644); err != nil {
			exitErr(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%d records, format %s)\n", flagExportOut, sess.TotalInstances(), format)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "json", "export format: json, csv, or html")
	exportCmd.Flags().StringVar(&flagExportSession, "session", "", "session id (default: most recent)")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
