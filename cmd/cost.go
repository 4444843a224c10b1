package cmd

import (
	"fmt"
	"os"
	"strconv"

	"reelmatch/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	costListLimit  int
	costListOffset int
)

// costCmd represents the base command for cost operations.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Manage and view AI usage costs",
	Long:  `Provides subcommands to list detailed AI usage logs and view cost summaries.`,
}

var costListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detailed AI usage logs",
	Long:  `Displays a paginated list of recorded AI API calls with associated costs and token counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return fmt.Errorf("invalid pagination flags: %w", err)
		}

		logs, err := appInstance.CostService.ListUsage(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list cost logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No cost logs found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Timestamp", "Provider", "Service", "Model", "In Tokens", "Out Tokens", "Cost", "Job ID"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, l := range logs {
			jobIDStr := "N/A"
			if l.RelatedJobID != nil {
				jobIDStr = l.RelatedJobID.String()
			}
			table.Append([]string{
				strconv.FormatInt(l.ID, 10),
				l.Timestamp.Format("2006-01-02 15:04:05"),
				l.ProviderName,
				l.ServiceType,
				l.ModelName,
				strconv.Itoa(l.InputTokens),
				strconv.Itoa(l.OutputTokens),
				fmt.Sprintf("%.8f", l.Cost),
				jobIDStr,
			})
		}
		table.Render()

		fmt.Printf("\nDisplayed %d logs.\n", len(logs))
		return nil
	},
}

var costSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show summary of total AI costs and token usage",
	Long:  `Calculates and displays the total cost, total input tokens, and total output tokens across all recorded AI usage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		summary, err := appInstance.CostService.GetSummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get cost summary: %w", err)
		}

		fmt.Println("AI Usage Cost Summary:")
		fmt.Println("----------------------")
		fmt.Printf("Total Cost:          $%.6f\n", summary.TotalCost)
		fmt.Printf("Total Input Tokens:  %d\n", summary.TotalInputTokens)
		fmt.Printf("Total Output Tokens: %d\n", summary.TotalOutputTokens)
		fmt.Println("----------------------")

		return nil
	},
}

func init() {
	costCmd.AddCommand(costListCmd)
	costCmd.AddCommand(costSummaryCmd)

	costListCmd.Flags().IntVarP(&costListLimit, "limit", "l", 50, "Number of logs to display")
	costListCmd.Flags().IntVarP(&costListOffset, "offset", "o", 0, "Number of logs to skip")
}
