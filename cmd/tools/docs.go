package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/lc3unit/pkg/hw/cpu"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/unittest/replay"
	"github.com/Manu343726/lc3unit/pkg/utils"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() (string, error){
	"cpu.instructions": interpreter.EncodingsDoc,
	"cpu.traps":        trapsDoc,
	"replay.format":    func() (string, error) { return replay.Doc(), nil },
}

func trapsDoc() (string, error) {
	var doc strings.Builder

	for _, vector := range []uint8{cpu.TrapGetc, cpu.TrapOut, cpu.TrapPuts, cpu.TrapIn, cpu.TrapPutsp, cpu.TrapHalt} {
		fmt.Fprintf(&doc, "x%02x  %-6s %s\n", vector, cpu.TrapName(vector), utils.FormatWord(cpu.TrapInstruction(vector)))
	}

	return doc.String(), nil
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show lc3unit documentation",
	Long: `Dumps the documentation of the specified module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := supportedModules[args[0]]()
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile == "" {
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		}

		return os.WriteFile(outputFile, []byte(doc), 0o644)
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
