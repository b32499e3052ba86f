// Package main provides the offline command line trainer for German numbers.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"zahlentrainer/internal/checker"
	"zahlentrainer/internal/config"
	"zahlentrainer/internal/generator"
	"zahlentrainer/internal/models"
	"zahlentrainer/internal/numwords"
)

const defaultRounds = 10

// practiceOptions holds the flags shared by random and quiz
type practiceOptions struct {
	configPath string
	min        int
	max        int
	decimal    bool
	places     int
	difficulty string
	seed       int64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "zahlen",
		Short:        "Practice German number words from 0 to 1000",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newRandomCmd())
	rootCmd.AddCommand(newQuizCmd())

	return rootCmd
}

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "words <number>...",
		Short: "Print the German words for each number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				d, err := parseNumber(arg)
				if err != nil {
					return err
				}
				word, err := numwords.ConvertDecimal(d)
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				fmt.Fprintf(out, "%s: %s\n", arg, word)
			}
			return nil
		},
	}
}

func newRandomCmd() *cobra.Command {
	opts := &practiceOptions{}
	var count int

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print random numbers with their German words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			settings, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}
			gen := newGenerator(cmd, opts)

			out := cmd.OutOrStdout()
			for i := 0; i < count; i++ {
				n, err := gen.Generate(settings)
				if err != nil {
					return err
				}
				word, err := numwords.Convert(n)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", formatNumber(n), word)
			}
			return nil
		},
	}

	addPracticeFlags(cmd, opts)
	cmd.Flags().IntVar(&count, "count", 1, "how many numbers to print")
	return cmd
}

func newQuizCmd() *cobra.Command {
	opts := &practiceOptions{}
	var rounds int

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Read German number words and type the digits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rounds < 1 {
				return fmt.Errorf("--rounds must be at least 1")
			}
			settings, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}
			q := &quiz{
				gen:      newGenerator(cmd, opts),
				settings: settings,
				in:       bufio.NewReader(cmd.InOrStdin()),
				out:      cmd.OutOrStdout(),
			}
			_, err = q.run(rounds)
			return err
		},
	}

	addPracticeFlags(cmd, opts)
	cmd.Flags().IntVar(&rounds, "rounds", defaultRounds, "number of questions")
	return cmd
}

func addPracticeFlags(cmd *cobra.Command, opts *practiceOptions) {
	defaults := models.DefaultSettings()
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultCLIConfigPath(), "TOML defaults file")
	cmd.Flags().IntVar(&opts.min, "min", defaults.Min, "smallest number")
	cmd.Flags().IntVar(&opts.max, "max", defaults.Max, "largest number (at most 1000)")
	cmd.Flags().BoolVar(&opts.decimal, "decimal", defaults.AllowDecimal, "allow decimal numbers")
	cmd.Flags().IntVar(&opts.places, "places", defaults.DecimalPlaces, "decimal places (1 or 2)")
	cmd.Flags().StringVar(&opts.difficulty, "difficulty", "", "preset: easy, medium, hard or expert")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for reproducible numbers")
}

// resolveSettings merges a difficulty preset, the TOML file and the flags.
// Flags that were set explicitly win over the file, which wins over the preset.
func resolveSettings(cmd *cobra.Command, opts *practiceOptions) (models.Settings, error) {
	fileCfg, err := config.LoadCLIDefaults(opts.configPath)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	p := fileCfg.Practice

	applyStringConfig(cmd, "difficulty", &opts.difficulty, p.Difficulty)

	settings := models.DefaultSettings()
	if opts.difficulty != "" {
		d, ok := models.DifficultyByName(strings.ToLower(opts.difficulty))
		if !ok {
			return models.Settings{}, fmt.Errorf("unknown difficulty %q", opts.difficulty)
		}
		settings = d.Settings
	}

	applyIntSetting(cmd, "min", &settings.Min, opts.min, p.Min)
	applyIntSetting(cmd, "max", &settings.Max, opts.max, p.Max)
	applyBoolSetting(cmd, "decimal", &settings.AllowDecimal, opts.decimal, p.Decimal)
	applyIntSetting(cmd, "places", &settings.DecimalPlaces, opts.places, p.DecimalPlaces)

	return settings, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntSetting(cmd *cobra.Command, name string, target *int, flagValue int, fileValue *int) {
	if cmd.Flags().Changed(name) {
		*target = flagValue
		return
	}
	if fileValue != nil {
		*target = *fileValue
	}
}

func applyBoolSetting(cmd *cobra.Command, name string, target *bool, flagValue bool, fileValue *bool) {
	if cmd.Flags().Changed(name) {
		*target = flagValue
		return
	}
	if fileValue != nil {
		*target = *fileValue
	}
}

func newGenerator(cmd *cobra.Command, opts *practiceOptions) *generator.Generator {
	if cmd.Flags().Changed("seed") {
		return generator.NewSeeded(opts.seed)
	}
	return generator.New(nil)
}

// quiz runs a terminal drill
type quiz struct {
	gen      *generator.Generator
	settings models.Settings
	in       *bufio.Reader
	out      io.Writer
}

type quizResult struct {
	asked   int
	correct int
	elapsed time.Duration
}

func (q *quiz) run(rounds int) (quizResult, error) {
	var res quizResult

	for i := 1; i <= rounds; i++ {
		n, err := q.gen.Generate(q.settings)
		if err != nil {
			return res, err
		}
		word, err := numwords.Convert(n)
		if err != nil {
			return res, err
		}

		fmt.Fprintf(q.out, "[%d/%d] %s\n> ", i, rounds, word)
		start := time.Now()
		line, readErr := q.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return res, readErr
		}
		if readErr != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(q.out)
			break
		}
		res.elapsed += time.Since(start)
		res.asked++

		answer, err := checker.ParseAnswer(line)
		switch {
		case err != nil:
			fmt.Fprintf(q.out, "Keine Zahl. Richtig ist %s.\n", formatNumber(n))
		case checker.IsCorrect(answer, n):
			res.correct++
			fmt.Fprintln(q.out, "Richtig!")
		default:
			fmt.Fprintf(q.out, "Falsch. Richtig ist %s.\n", formatNumber(n))
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	fmt.Fprintf(q.out, "Ergebnis: %d/%d richtig (%d%%)\n", res.correct, res.asked, accuracy(res.correct, res.asked))
	return res, nil
}

func accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// parseNumber reads a decimal argument, accepting a German decimal comma
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
