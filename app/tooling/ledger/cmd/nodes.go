package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [address...]",
	Short: "Register peer nodes with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  registerRun,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to adopt the longest valid chain of its peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/nodes/resolve", nil)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(resolveCmd)
}

func registerRun(cmd *cobra.Command, args []string) error {
	nodes := struct {
		Nodes []string `json:"nodes"`
	}{
		Nodes: args,
	}

	return call(cmd.OutOrStdout(), http.MethodPost, "/nodes/register", nodes)
}
