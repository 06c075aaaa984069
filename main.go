//go:build !( js || wasm)

package main

import (
	"github.com/cottand/uom/cmd"
	"github.com/spf13/cobra"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		//_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "uom [subcommand]",
	Short: "uom 📏\n units of measure for your equations, checked and solved",
	Args:  cobra.MinimumNArgs(1),
	//SilenceErrors: true,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.SolveCmd)
	rootCmd.AddCommand(cmd.NormCmd)
}
