package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bayesdx/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded engine calls",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent engine calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		operation, _ := cmd.Flags().GetString("operation")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryAnalyses(cmd.Context(), store.QueryOpts{Limit: limit, Operation: operation})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printResult(cmd, events, nil)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-17s  %-4s  %-7s  %-8s  %s\n",
			"ID", "Timestamp", "Operation", "Src", "µs", "Result", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 80))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			result := "-"
			if e.FinalProbability != nil {
				result = fmt.Sprintf("%.1f%%", *e.FinalProbability*100)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-17s  %-4s  %-7d  %-8s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Operation,
				e.Source,
				e.LatencyMicros,
				result,
				ok,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full input and output of a recorded call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetAnalysis(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("event %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printResult(cmd, e, nil)
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)

		fmt.Fprintf(out, "ID:         %d\n", e.ID)
		fmt.Fprintf(out, "Sequence:   %d\n", e.Sequence)
		fmt.Fprintf(out, "Time:       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Request ID: %s\n", e.RequestID)
		fmt.Fprintf(out, "Operation:  %s\n", e.Operation)
		fmt.Fprintf(out, "Source:     %s\n", e.Source)
		fmt.Fprintf(out, "Latency:    %dµs\n", e.LatencyMicros)
		fmt.Fprintf(out, "Success:    %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "Error:      %s\n", e.ErrorMessage)
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "INPUT")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, orNotCaptured(e.Input))

		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "OUTPUT")
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, orNotCaptured(e.Output))
		return nil
	},
}

func orNotCaptured(s string) string {
	if s == "" {
		return "(not captured)"
	}
	return s
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	historyListCmd.Flags().StringP("operation", "o", "", "Filter by operation (likelihood-ratio, posterior, sequential, performance, recommend)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyViewCmd)
}
