package tools

import (
	"github.com/spf13/cobra"
)

// ToolsCmd groups miscellaneous tools
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "lc3unit miscellaneous tools",
}
