package cmd

import (
	"github.com/pyama86/breachtracker/handler"
	"github.com/spf13/cobra"
)

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List business units",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.Units() })
	},
}

var unitsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a business unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.AddUnit(args[0]) })
	},
}

var unitsRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a business unit everywhere it is used",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.RenameUnit(args[0], args[1]) })
	},
}

var unitsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a business unit from the registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(h *handler.Handler) error { return h.RemoveUnit(args[0]) })
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all state and restore the demonstration dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			cmd.Println("reset discards every incident and draft; rerun with --yes")
			return nil
		}
		return run(cmd, func(h *handler.Handler) error { return h.Reset() })
	},
}

func init() {
	unitsCmd.AddCommand(unitsAddCmd, unitsRenameCmd, unitsRemoveCmd)
	resetCmd.Flags().Bool("yes", false, "confirm the reset")
	rootCmd.AddCommand(unitsCmd, resetCmd)
}
