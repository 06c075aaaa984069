package cmd

import (
	"fmt"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/uom"
	"github.com/spf13/cobra"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

var SolveCmd = &cobra.Command{
	Use:          "solve ./folder|file.uom",
	Short:        "Solve the unit equations in a file",
	RunE:         runSolve,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	showNormalForms *bool
	logLevel        *int
)

func init() {
	showNormalForms = SolveCmd.Flags().BoolP("normal-forms", "n", false, "also print each equation in canonical normal form")
	logLevel = SolveCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runSolve(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	target, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("could not get absolute path of target: %w", err)
	}

	stat, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("could not stat target: %w", err)
	}

	var folderFS fs.FS
	var settings uom.SysLoadSettings
	if stat.IsDir() {
		folderFS = os.DirFS(target)
	} else {
		folderFS = os.DirFS(filepath.Dir(target))
		settings.File = filepath.Base(target)
	}

	sys, err := uom.LoadSystem(folderFS, settings)
	if err != nil {
		return fmt.Errorf("could not load equations (this is a bug and not a solve error): %w", err)
	}
	return solveAndPrint(cmd, sys)
}

func solveAndPrint(cmd *cobra.Command, sys *uom.System) error {
	if sys.Errors().HasError() {
		return fmt.Errorf("errors found while solving:\n%s", sys.DisplayErrors())
	}
	if *showNormalForms {
		cmd.Println(sys.DisplayNormalForms())
		cmd.Println()
	}
	cmd.Println(sys.DisplaySolution())
	return nil
}
