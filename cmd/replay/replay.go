package replay

import (
	"encoding/hex"
	"fmt"

	"github.com/Manu343726/lc3unit/cmd/cli"
	"github.com/Manu343726/lc3unit/pkg/hw/cpu/interpreter"
	"github.com/Manu343726/lc3unit/pkg/unittest/scenario"
	"github.com/spf13/cobra"
)

// ReplayCmd groups the replay string commands
var ReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Build complx replay strings",
}

var encodeDump bool

var encodeCmd = &cobra.Command{
	Use:   "encode <scenario.yaml>",
	Short: "Print the replay string of a test scenario",
	Long: `Applies the setup of a YAML scenario (environment, memory initialization, code,
setup steps and subroutine call) to the reference machine without running it,
and prints the replay string complx uses to rebuild the same scenario.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scenario.Load(args[0])
		if err != nil {
			return err
		}

		m := interpreter.NewMachine()
		m.SetLogger(cli.Logger())

		recorder, err := s.Replay(m, cli.Logger())
		if err != nil {
			return err
		}

		if encodeDump {
			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(recorder.Blob()))
		}

		fmt.Fprintln(cmd.OutOrStdout(), recorder.Encode())
		return nil
	},
}

func init() {
	ReplayCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVarP(&encodeDump, "dump", "d", false, "Also print a hex dump of the binary blob")
}
