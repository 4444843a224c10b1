package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
)

// historyCmd represents the base command for query history operations
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recommendation query history",
	Long:  `Displays past recommendation queries, where they were resolved and what they returned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listHistoryCmd.RunE(cmd, args)
	},
}

var listHistoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent recommendation queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		queries, err := appInstance.HistoryService.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing query history: %w", err)
		}

		if len(queries) == 0 {
			fmt.Println("No query history found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Query", "Source", "Results", "Services", "Executed At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, q := range queries {
			table.Append([]string{
				strconv.FormatInt(q.ID, 10),
				q.Query,
				q.Source,
				strconv.Itoa(q.ResultsCount),
				strings.Join(q.ServiceIDs, ", "),
				q.ExecutedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	// 0 falls back to history.default_limit
	listHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of history entries to show")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of history entries to show")

	historyCmd.AddCommand(listHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
