package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sflang/sfl/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "sfl",
		Short:         "An interactive, step-by-step evaluator for a small lazy functional language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the sfl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("sfl " + config.Version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
