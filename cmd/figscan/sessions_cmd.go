package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/figscan/pkg/export"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored scan sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		sessions, err := st.ListAll()
		if err != nil {
			exitErr(err)
		}
		if len(sessions) == 0 {
			fmt.Println("No stored sessions.")
			return
		}
		for _, sess := range sessions {
			fmt.Printf("%s  %s  %-8s  %-8s  %q  %d instances\n",
				sess.ID,
				sess.StartedAt.Format("2006-01-02 15:04:05"),
				sess.Scope,
				sess.State,
				sess.Target.DisplayName,
				sess.TotalInstances())
		}
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one session as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		sess, err := st.Get(args[0])
		if err != nil {
			exitErr(err)
		}
		out, err := export.ToStructured(sess)
		if err != nil {
			exitErr(err)
		}
		fmt.Print(out)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete one session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		if err := st.Delete(args[0]); err != nil {
			exitErr(err)
		}
		fmt.Printf("Deleted session %s\n", args[0])
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored session",
	Run: func(cmd *cobra.Command, args []string) {
		st, closeStore, err := openStore()
		if err != nil {
			exitErr(err)
		}
		defer closeStore()

		if err := st.Clear(); err != nil {
			exitErr(err)
		}
		fmt.Println("Session store cleared.")
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd, sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}
