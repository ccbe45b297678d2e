package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sflang/sfl/internal/config"
)

func newEvalCmd() *cobra.Command {
	var infer bool
	var steps int
	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Typecheck a module, reduce main to normal form, and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.LoadOptions("")
			if err != nil {
				return err
			}
			h, err := loadHandle(args[0], infer, opts)
			if err != nil {
				return err
			}
			limit := steps
			if limit == 0 {
				limit = opts.StepLimit
			}
			if _, err := h.ReduceAll(limit); err != nil {
				return err
			}
			fmt.Println(h.MainString())
			return nil
		},
	}
	cmd.Flags().BoolVar(&infer, "infer", false, "allow undeclared definitions and infer their types")
	cmd.Flags().IntVar(&steps, "steps", 0, "bound the number of reduction steps (0 = config default)")
	return cmd
}
