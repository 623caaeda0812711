package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/roadmap"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Show, export or generate a skill's roadmap",
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show SKILL_ID",
	Short: "Print the roadmap as a tree, JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatVal, _ := cmd.Flags().GetString("format")
		format, err := roadmap.ParseFormat(formatVal)
		if err != nil {
			return err
		}

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
		s, err := e.getSkill(ctx, sess, args[0])
		if err != nil {
			return err
		}
		if strings.TrimSpace(s.Roadmap) == "" {
			return fmt.Errorf("%q has no roadmap yet; run `sensei roadmap generate %s`", s.Title, s.ID)
		}

		var w io.Writer = os.Stdout
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return roadmap.Encode(w, roadmap.Parse(s.Roadmap), format)
	},
}

var roadmapGenerateCmd = &cobra.Command{
	Use:   "generate SKILL_ID",
	Short: "Generate a roadmap, optionally grounded in selected documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docIDs, _ := cmd.Flags().GetStringSlice("docs")

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
		s, err := e.getSkill(ctx, sess, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Generating a roadmap for %q...\n", s.Title)
		res, err := e.backend.GenerateRoadmap(ctx, s.ID, docIDs)
		if err != nil {
			return fmt.Errorf("generate roadmap: %w", err)
		}
		sections := roadmap.Parse(res.Roadmap)
		st := roadmap.Count(sections)
		fmt.Printf("Done: %d sections, %d phases, %d topics, %d items.\n\n",
			st.Sections, st.Phases, st.Topics, st.Items)
		return roadmap.Encode(os.Stdout, sections, roadmap.FormatTree)
	},
}

func init() {
	roadmapShowCmd.Flags().StringP("format", "f", string(roadmap.FormatTree), "Output format: tree, json or yaml")
	roadmapShowCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	roadmapGenerateCmd.Flags().StringSlice("docs", nil, "Document IDs to ground the roadmap in (comma-separated)")

	roadmapCmd.AddCommand(roadmapShowCmd)
	roadmapCmd.AddCommand(roadmapGenerateCmd)
}
