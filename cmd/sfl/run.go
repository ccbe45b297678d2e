package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/sflang/sfl/internal/config"
	"github.com/sflang/sfl/internal/engine"
	"github.com/sflang/sfl/internal/history"
)

const horizontalSeparator = "______________________________________________________________"

type runFlags struct {
	auto    bool
	steps   int
	diff    bool
	trace   bool
	noColor bool
	infer   bool
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Typecheck a module and step through its reductions interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], flags)
		},
	}
	cmd.Flags().BoolVar(&flags.auto, "auto", false, "reduce laziest-first to normal form without prompting")
	cmd.Flags().IntVar(&flags.steps, "steps", 0, "bound the number of reduction steps (0 = config default)")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "show a unified diff of main between steps")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "record each step into the sqlite trace database")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&flags.infer, "infer", false, "allow undeclared definitions and infer their types")
	return cmd
}

func setupColor(flags runFlags, opts config.Options) {
	switch {
	case flags.noColor:
		color.NoColor = true
	case opts.Color != nil:
		color.NoColor = !*opts.Color
	default:
		color.NoColor = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

func loadHandle(path string, infer bool, opts config.Options) (*engine.Handle, error) {
	if !config.HasSourceExt(path) {
		fmt.Fprintf(os.Stderr, "warning: %s does not have a recognized source extension\n", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return engine.ParseAndCheck(string(src), engine.Options{
		Prelude:        opts.Prelude,
		AllowInference: infer,
		FilePath:       path,
	})
}

func runFile(path string, flags runFlags) error {
	opts, err := config.LoadOptions("")
	if err != nil {
		return err
	}
	setupColor(flags, opts)
	limit := flags.steps
	if limit == 0 {
		limit = opts.StepLimit
	}

	h, err := loadHandle(path, flags.infer, opts)
	if err != nil {
		return err
	}

	var rec *history.Recorder
	if flags.trace {
		rec, err = history.Open(opts.TraceDB, h.ID, path)
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	redex := color.New(color.FgCyan)

	fmt.Println(h.ModuleString(true))
	fmt.Println(horizontalSeparator)
	dim.Println("\nDESUGARED:\n" + h.DesugaredString())
	fmt.Println(horizontalSeparator)
	fmt.Println()
	bold.Println(h.MainString())

	in := bufio.NewScanner(os.Stdin)
	steps := 0
	for {
		views, err := h.Redexes()
		if err != nil {
			return err
		}
		if len(views) == 0 {
			dim.Println("(normal form)")
			return nil
		}
		if limit > 0 && steps >= limit {
			return fmt.Errorf("stopped after %d steps without reaching normal form", steps)
		}

		selector := -1
		if flags.auto {
			sel, ok := h.Laziest()
			if !ok {
				dim.Println("(normal form)")
				return nil
			}
			selector = sel
		} else {
			for _, v := range views {
				fmt.Printf("%d) %s => %s\n", v.Selector+1, redex.Sprint(v.From), v.To)
			}
			fmt.Print("? ")
			if !in.Scan() {
				return nil
			}
			input := strings.TrimSpace(in.Text())
			if input == "" {
				sel, ok := h.Laziest()
				if !ok {
					dim.Println("(normal form)")
					return nil
				}
				selector = sel
			} else {
				num, err := strconv.Atoi(input)
				if err != nil || num < 1 || num > len(views) {
					fmt.Fprintln(os.Stderr, "invalid choice")
					continue
				}
				selector = num - 1
			}
		}

		before := h.MainString()
		chosen := views[selector]
		if err := h.Pick(selector); err != nil {
			return err
		}
		steps++
		after := h.MainString()

		if rec != nil {
			if err := rec.Record(chosen.From, chosen.To, after); err != nil {
				return err
			}
		}

		fmt.Println()
		if flags.diff {
			printDiff(before, after)
		}
		bold.Println(after)
	}
}

func printDiff(before, after string) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil || text == "" {
		return
	}
	color.New(color.Faint).Print(text)
}
