package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sensei",
	Short: "AI learning mentor in your terminal",
	Long:  "StudySensei: build skills, chat with a mentor over your documents, take quizzes and solve coding challenges.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/sensei/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SENSEI_DB env var)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(docCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(codingCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
