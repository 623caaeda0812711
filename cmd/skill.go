package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/skills"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage your skills",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your skills, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		list, err := e.data.ListSkills(ctx, sess.UserID)
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No skills yet. Create one with `sensei skill create`.")
			return nil
		}

		fmt.Printf("%-36s  %-32s  %-14s  %-4s  %s\n", "ID", "Title", "Category", "Code", "Roadmap")
		rule(104)
		for _, s := range list {
			code := ""
			if s.IsTechnical {
				code = "✓"
			}
			roadmap := "—"
			if s.Roadmap != "" {
				roadmap = "✓"
			}
			fmt.Printf("%-36s  %-32s  %-14s  %-4s  %s\n",
				s.ID, truncate(s.Title, 32), skills.Category(s.Category).Label(), code, roadmap)
		}
		fmt.Printf("\n%d skills\n", len(list))
		return nil
	},
}

var skillCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")

		form := skills.NewSkill{
			Title:       title,
			Description: description,
			Category:    skills.Category(strings.ToLower(category)),
		}
		if err := form.Validate(); err != nil {
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
		s, err := skills.Create(ctx, e.data, sess.UserID, form)
		if err != nil {
			return err
		}
		fmt.Printf("Created %q (%s)\n", s.Title, s.ID)
		fmt.Println("Next: `sensei doc upload " + s.ID + " FILE...` then `sensei roadmap generate " + s.ID + "`.")
		return nil
	},
}

var skillDeleteCmd = &cobra.Command{
	Use:   "delete SKILL_ID",
	Short: "Delete a skill and everything attached to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if yes, _ := cmd.Flags().GetBool("yes"); !yes && !confirm(fmt.Sprintf("Delete %q?", s.Title)) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := e.backend.DeleteSkill(ctx, s.ID); err != nil {
			return fmt.Errorf("delete skill: %w", err)
		}
		fmt.Println("Skill deleted successfully!")
		return nil
	},
}

func categoryNames() string {
	var names []string
	for _, c := range skills.AllCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func init() {
	skillCreateCmd.Flags().String("title", "", "Skill title (required)")
	skillCreateCmd.Flags().String("description", "", "What you want to achieve")
	skillCreateCmd.Flags().String("category", string(skills.CategoryTechnical), "One of: "+categoryNames())
	_ = skillCreateCmd.MarkFlagRequired("title")

	skillDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillCreateCmd)
	skillCmd.AddCommand(skillDeleteCmd)
}
