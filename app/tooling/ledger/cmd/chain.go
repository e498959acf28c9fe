package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/chain", nil)
	},
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/mine", nil)
	},
}

var mempoolCmd = &cobra.Command{
	Use:   "mempool",
	Short: "Print the transactions waiting for the next block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.OutOrStdout(), http.MethodGet, "/v1/tx/uncommitted/list", nil)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(mempoolCmd)
}
