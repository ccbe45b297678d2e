package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/sflang/sfl/internal/config"
)

func newCheckCmd() *cobra.Command {
	var infer bool
	cmd := &cobra.Command{
		Use:   "check GLOB...",
		Short: "Typecheck every matching module and print its definition types",
		Long: "Typecheck every module matching the given paths or doublestar globs\n" +
			"(e.g. 'examples/**/*.sfl') and print each definition's type.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.LoadOptions("")
			if err != nil {
				return err
			}

			var files []string
			for _, arg := range args {
				if matches, err := doublestar.FilepathGlob(arg); err == nil && len(matches) > 0 {
					files = append(files, matches...)
					continue
				}
				files = append(files, arg)
			}

			for _, file := range files {
				if info, err := os.Stat(file); err == nil && info.IsDir() {
					continue
				}
				h, err := loadHandle(file, infer, opts)
				if err != nil {
					return fmt.Errorf("%s: %w", filepath.Clean(file), err)
				}
				fmt.Printf("%s:\n%s\n", filepath.Clean(file), h.TypeAssigns())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&infer, "infer", false, "allow undeclared definitions and infer their types")
	return cmd
}
