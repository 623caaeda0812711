package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/documents"
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Manage a skill's learning documents",
}

var docListCmd = &cobra.Command{
	Use:   "list SKILL_ID",
	Short: "List documents and their processing status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if _, err := e.session(ctx); err != nil {
			return err
		}
		docs, err := e.data.ListDocuments(ctx, args[0])
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		printDocuments(docs)
		return nil
	},
}

var docUploadCmd = &cobra.Command{
	Use:   "upload SKILL_ID FILE...",
	Short: "Upload documents (pdf, txt, doc, docx, md)",
	Args:  cobra.MinimumNArgs(2),
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

		paths := args[1:]
		fmt.Printf("Uploading %d file(s) to %q...\n", len(paths), s.Title)
		ids, failures := documents.UploadAll(ctx, e.backend, s.ID, sess.UserID, paths)
		for _, f := range failures {
			fmt.Println("  ✗", f.Error())
		}
		fmt.Printf("Uploaded %d of %d file(s).\n", len(ids), len(paths))
		for _, id := range ids {
			fmt.Println("  ✓", id)
		}

		if wait, _ := cmd.Flags().GetBool("wait"); wait && len(ids) > 0 {
			return watchDocuments(ctx, e, s.ID)
		}
		if len(ids) == 0 {
			return fmt.Errorf("no documents uploaded")
		}
		return nil
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete DOCUMENT_ID",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if _, err := e.session(ctx); err != nil {
			return err
		}
		if err := e.backend.DeleteDocument(ctx, args[0]); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		fmt.Println("Document deleted.")
		return nil
	},
}

var docWatchCmd = &cobra.Command{
	Use:   "watch SKILL_ID",
	Short: "Poll until every document has finished processing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if _, err := e.session(ctx); err != nil {
			return err
		}
		return watchDocuments(ctx, e, args[0])
	},
}

// watchDocuments prints the status counts on every poll until all
// documents are terminal.
func watchDocuments(ctx context.Context, e *env, skillID string) error {
	poller := documents.NewPoller(e.cfg.PollInterval, func(ctx context.Context) ([]api.Document, error) {
		return e.data.ListDocuments(ctx, skillID)
	})
	fmt.Printf("Watching documents (every %s, Ctrl+C to stop)...\n", poller.Interval)

	docs, err := poller.Watch(ctx, func(docs []api.Document) {
		c := documents.Counts(docs)
		fmt.Printf("%s  pending %d · processing %d · ready %d · failed %d\n",
			time.Now().Format("15:04:05"),
			c[documents.StatusPending], c[documents.StatusProcessing],
			c[documents.StatusReady], c[documents.StatusFailed])
	})
	if err != nil {
		return fmt.Errorf("watch documents: %w", err)
	}
	fmt.Println()
	printDocuments(docs)
	return nil
}

func printDocuments(docs []api.Document) {
	if len(docs) == 0 {
		fmt.Println("No documents.")
		return
	}
	fmt.Printf("%-36s  %-40s  %-10s  %s\n", "ID", "Filename", "Status", "Uploaded")
	rule(110)
	for _, d := range docs {
		status := documents.Classify(d)
		uploaded := ""
		if !d.CreatedAt.IsZero() {
			uploaded = d.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("%-36s  %-40s  %-10s  %s\n", d.ID, truncate(d.Filename, 40), status.Label(), uploaded)
		if status == documents.StatusFailed && d.ErrorMessage != "" {
			fmt.Printf("%38s↳ %s\n", "", d.ErrorMessage)
		}
	}
}

func init() {
	docUploadCmd.Flags().Bool("wait", false, "Watch processing until every document is done")

	docCmd.AddCommand(docListCmd)
	docCmd.AddCommand(docUploadCmd)
	docCmd.AddCommand(docDeleteCmd)
	docCmd.AddCommand(docWatchCmd)
}
