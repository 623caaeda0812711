package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/coding"
)

var codingCmd = &cobra.Command{
	Use:   "coding",
	Short: "Coding challenges for technical skills",
}

var codingShowCmd = &cobra.Command{
	Use:   "show SKILL_ID",
	Short: "Show the current challenge, generating one if there is none",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChallenge(cmd, args[0], false, func(e *env, _ *auth.Session, q *api.CodingQuestion) error {
			printQuestion(q)
			if dir, _ := cmd.Flags().GetString("scaffold"); dir != "" {
				return scaffold(cmd, dir)
			}
			return nil
		})
	},
}

var codingGenerateCmd = &cobra.Command{
	Use:   "generate SKILL_ID",
	Short: "Generate a new challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withChallenge(cmd, args[0], true, func(_ *env, _ *auth.Session, q *api.CodingQuestion) error {
			printQuestion(q)
			return nil
		})
	},
}

var codingSubmitCmd = &cobra.Command{
	Use:   "submit SKILL_ID FILE",
	Short: "Grade a solution against the current challenge's tests",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, lang, err := readSolution(cmd, args[1])
		if err != nil {
			return err
		}
		return withChallenge(cmd, args[0], false, func(e *env, sess *auth.Session, q *api.CodingQuestion) error {
			fmt.Printf("Submitting %s solution for %q...\n\n", lang, q.Title)
			res, err := e.backend.SubmitCode(cmd.Context(), api.SubmitRequest{
				UserID:     sess.UserID,
				QuestionID: q.ID,
				Code:       code,
				Language:   lang,
			})
			if err != nil {
				return fmt.Errorf("submit code: %w", err)
			}

			for _, c := range coding.Cases(res.Results) {
				mark := ansiGreen + "✓" + ansiReset
				if !c.Passed {
					mark = ansiRed + "✗" + ansiReset
				}
				fmt.Println(mark, c.Title)
				if c.Hidden {
					continue
				}
				if !c.Passed {
					fmt.Printf("    input:    %s\n    expected: %s\n    actual:   %s\n",
						oneLine(c.Input), oneLine(c.Expected), oneLine(c.Actual))
				}
				if c.Error != "" {
					fmt.Printf("    error:    %s\n", oneLine(c.Error))
				}
			}

			summary := coding.Summarize(res)
			_, notice := summary.Notice()
			fmt.Println()
			fmt.Println(summary.String())
			fmt.Println(notice)
			return nil
		})
	},
}

var codingRunCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run code on the code runner with custom input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, lang, err := readSolution(cmd, args[0])
		if err != nil {
			return err
		}
		input, _ := cmd.Flags().GetString("input")
		if inputFile, _ := cmd.Flags().GetString("input-file"); inputFile != "" {
			b, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			input = string(b)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.runner.Run(cmd.Context(), api.RunRequest{Code: code, InputData: input, Language: lang})
		if err != nil {
			return fmt.Errorf("run code: %w", err)
		}
		fmt.Print(res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Println()
		}
		if res.Status != "" && res.Status != "success" {
			return fmt.Errorf("run finished with status %q", res.Status)
		}
		return nil
	},
}

// withChallenge loads the latest challenge of a technical skill, or
// generates one when fresh is set or none exists, and calls fn with it.
func withChallenge(cmd *cobra.Command, skillID string, fresh bool, fn func(*env, *auth.Session, *api.CodingQuestion) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	sess, err := e.session(ctx)
	if err != nil {
		return err
	}
	s, err := e.getSkill(ctx, sess, skillID)
	if err != nil {
		return err
	}
	if !s.IsTechnical {
		return fmt.Errorf("coding challenges are available for technical skills only; %q is %s", s.Title, s.Category)
	}

	var q *api.CodingQuestion
	if !fresh {
		if q, err = e.data.LatestCodingQuestion(ctx, s.ID); err != nil {
			return fmt.Errorf("load challenge: %w", err)
		}
	}
	if q == nil {
		if q, err = generateChallenge(ctx, e, *s); err != nil {
			return err
		}
	}
	return fn(e, sess, q)
}

func generateChallenge(ctx context.Context, e *env, s api.Skill) (*api.CodingQuestion, error) {
	fmt.Printf("Generating a challenge for %q...\n\n", s.Title)
	q, err := e.backend.GenerateCodingQuestion(ctx, coding.GenerateRequest(s))
	if err != nil {
		return nil, fmt.Errorf("generate challenge: %w", err)
	}
	return q, nil
}

func printQuestion(q *api.CodingQuestion) {
	fmt.Printf("%s  [%s]\n", q.Title, q.Difficulty)
	rule(60)
	fmt.Println(strings.TrimSpace(q.Description))
	for i, tc := range coding.VisibleTestCases(q) {
		fmt.Printf("\nExample %d\n  input:    %s\n  expected: %s\n", i+1, oneLine(tc.Input), oneLine(tc.ExpectedOutput))
	}
	fmt.Println()
}

// scaffold writes the starter file for --lang into dir.
func scaffold(cmd *cobra.Command, dir string) error {
	lang, _ := cmd.Flags().GetString("lang")
	if !coding.ValidLanguage(lang) {
		return fmt.Errorf("unsupported language %q (want %s)", lang, strings.Join(coding.Languages(), " or "))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "solution."+coding.Extension(lang))
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(coding.Boilerplate(lang)), 0o644); err != nil {
		return fmt.Errorf("write starter: %w", err)
	}
	fmt.Println("Starter code written to", path)
	return nil
}

// readSolution reads a source file. The language comes from --lang or the
// file extension.
func readSolution(cmd *cobra.Command, path string) (code, lang string, err error) {
	lang, _ = cmd.Flags().GetString("lang")
	if !cmd.Flags().Changed("lang") {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".js", ".mjs":
			lang = "javascript"
		case ".py":
			lang = "python"
		}
	}
	if !coding.ValidLanguage(lang) {
		return "", "", fmt.Errorf("unsupported language %q (want %s)", lang, strings.Join(coding.Languages(), " or "))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read solution: %w", err)
	}
	return string(b), lang, nil
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "⏎")
}

func init() {
	codingShowCmd.Flags().String("scaffold", "", "Write starter code into this directory")
	codingShowCmd.Flags().String("lang", coding.DefaultLanguage, "Language: python or javascript")
	codingSubmitCmd.Flags().String("lang", coding.DefaultLanguage, "Language (default from file extension)")
	codingRunCmd.Flags().String("lang", coding.DefaultLanguage, "Language (default from file extension)")
	codingRunCmd.Flags().String("input", "", "Standard input for the program")
	codingRunCmd.Flags().String("input-file", "", "Read standard input from a file")

	codingCmd.AddCommand(codingShowCmd)
	codingCmd.AddCommand(codingGenerateCmd)
	codingCmd.AddCommand(codingSubmitCmd)
	codingCmd.AddCommand(codingRunCmd)
}
