package cmd

import (
	"fmt"
	"os"

	"github.com/Manu343726/lc3unit/cmd/cli"
	"github.com/Manu343726/lc3unit/cmd/lc3"
	"github.com/Manu343726/lc3unit/cmd/replay"
	"github.com/Manu343726/lc3unit/cmd/tools"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	noColor bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "lc3unit",
	Short: "Unit testing for LC-3 assembly code",
	Long: `lc3unit runs LC-3 programs and subroutines on a reference simulator and checks
their behavior: final registers and memory, console output, calling convention
and the subroutine and trap calls they make.

Every failed check prints a replay string that rebuilds the tested scenario in
the complx interactive simulator.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			viper.Set(cli.KeyColor, false)
		}
		return cli.Setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		cli.Close()
	},
}

// Execute runs the command line, exiting with status 1 on error
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(lc3.Lc3Cmd, replay.ReplayCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.lc3unit.yaml)")
	flags.String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")

	cobra.CheckErr(viper.BindPFlag(cli.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(cli.KeyLogFile, flags.Lookup("log-file")))
}

// initConfig loads --config or $HOME/.lc3unit.yaml plus LC3UNIT_* variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".lc3unit" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".lc3unit")
	}

	viper.SetEnvPrefix("lc3unit")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
