package cmd

import (
	"fmt"
	"github.com/cottand/uom/internal/log"
	"github.com/cottand/uom/parser"
	"github.com/cottand/uom/units"
	"github.com/cottand/uom/uomerr"
	"github.com/spf13/cobra"
	"log/slog"
	"strings"
)

var NormCmd = &cobra.Command{
	Use:          "norm \"expr\" [\"expr\" ...]",
	Short:        "Print the canonical normal form of unit expressions",
	RunE:         runNorm,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func runNorm(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.LevelError)

	for _, arg := range args {
		expr, errs := parser.ParseExpr(arg)
		if errs.HasError() {
			sb := &strings.Builder{}
			for _, parseError := range errs.Errors() {
				sb.WriteString("\n")
				sb.WriteString(uomerr.FormatWithCodeAndSource(parseError, "argument", arg))
			}
			return fmt.Errorf("errors found while parsing:%s", sb.String())
		}
		cmd.Println(units.Normalise(expr))
	}
	return nil
}
