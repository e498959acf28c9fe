package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	angler  string
	fishery string
	fish    string
	weight  float64
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record a catch in the mempool.",
	RunE:  txRun,
}

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.Flags().StringVarP(&angler, "angler", "a", "", "Who caught the fish.")
	txCmd.Flags().StringVarP(&fishery, "fishery", "f", "", "Where the fish was caught.")
	txCmd.Flags().StringVarP(&fish, "fish", "s", "", "The species caught.")
	txCmd.Flags().Float64VarP(&weight, "weight", "w", 0, "How much was caught.")
	txCmd.MarkFlagRequired("angler")
	txCmd.MarkFlagRequired("fishery")
	txCmd.MarkFlagRequired("fish")
	txCmd.MarkFlagRequired("weight")
}

func txRun(cmd *cobra.Command, args []string) error {
	tx := struct {
		Angler  string  `json:"angler"`
		Fishery string  `json:"fishery"`
		Fish    string  `json:"fish"`
		Weight  float64 `json:"weight"`
	}{
		Angler:  angler,
		Fishery: fishery,
		Fish:    fish,
		Weight:  weight,
	}

	return call(cmd.OutOrStdout(), http.MethodPost, "/transactions/new", tx)
}
