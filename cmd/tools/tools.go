package tools

import (
	"github.com/spf13/cobra"
)

// ToolsCmd groups miscellaneous commands
var ToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "isasim miscellaneous tools",
}
