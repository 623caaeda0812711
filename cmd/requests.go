package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect recorded backend, runner and Supabase requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		service, _ := cmd.Flags().GetString("service")
		failed, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.RequestRepo().Query(ctx, store.QueryOpts{Limit: limit, Service: service, Failed: failed})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No requests recorded.")
			return nil
		}

		// Header.
		fmt.Printf("%-5s  %-19s  %-9s  %-6s  %-36s  %-6s  %-7s  %s\n",
			"ID", "Timestamp", "Service", "Method", "Path", "Status", "Ms", "OK")
		rule(104)

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			fmt.Printf("%-5d  %-19s  %-9s  %-6s  %-36s  %-6d  %-7d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Service,
				e.Method,
				truncate(e.Path, 36),
				e.StatusCode,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view ID",
	Short: "Show full request and response for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		e, err := s.RequestRepo().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		sep := strings.Repeat("─", 60)

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Service:   %s\n", e.Service)
		fmt.Printf("Request:   %s %s\n", e.Method, e.Path)
		fmt.Printf("Status:    %d\n", e.StatusCode)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}

		fmt.Println()
		fmt.Println(sep)
		fmt.Println("REQUEST")
		fmt.Println(sep)
		if e.RequestBody != "" {
			fmt.Println(e.RequestBody)
		} else {
			fmt.Println("(empty)")
		}

		fmt.Println(sep)
		fmt.Println("RESPONSE")
		fmt.Println(sep)
		if e.ResponseBody != "" {
			fmt.Println(e.ResponseBody)
		} else {
			fmt.Println("(empty)")
		}

		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts, failures and latency per endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.RequestRepo().UsageByEndpoint(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No requests recorded yet.")
			return nil
		}

		fmt.Println("Usage by Endpoint")
		rule(80)
		fmt.Printf("%-9s  %-36s  %6s  %8s  %10s\n", "Service", "Path", "Calls", "Failures", "Avg Ms")
		rule(80)

		var totalCalls, totalFailures int
		for _, st := range stats {
			fmt.Printf("%-9s  %-36s  %6d  %8d  %10.0f\n",
				st.Service, truncate(st.Path, 36), st.Calls, st.Failures, st.AvgLatencyMs)
			totalCalls += st.Calls
			totalFailures += st.Failures
		}

		rule(80)
		fmt.Printf("%-9s  %-36s  %6d  %8d\n", "TOTAL", "", totalCalls, totalFailures)
		return nil
	},
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	requestsListCmd.Flags().StringP("service", "s", "", "Filter by service (backend, runner, supabase)")
	requestsListCmd.Flags().Bool("failed", false, "Only show failed requests")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsViewCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}
