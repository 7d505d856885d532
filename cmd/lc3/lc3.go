package lc3

import (
	"github.com/spf13/cobra"
)

// Lc3Cmd groups the commands running code on the reference LC-3 machine
var Lc3Cmd = &cobra.Command{
	Use:   "lc3",
	Short: "Run and test LC-3 code on the reference machine",
}
