package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"reelmatch/internal/catalog"
	"reelmatch/internal/clix"
	"reelmatch/internal/viewstate"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	recommendJSON  bool
	recommendAsync bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [description...]",
	Short: "Recommend up to three video services for a description",
	Long: `Resolves a free-text description of a video need into a shortlist of
catalog services. An empty description uses a generic business-video query.`,
	Example: `  reelmatch recommend "launch teaser for our new app"
  reelmatch recommend --category Social "short clips for tiktok"
  reelmatch recommend --async "conference recap"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}
		query := strings.Join(args, " ")

		if recommendAsync {
			jobID, err := appInstance.JobService.EnqueueRecommendation(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to enqueue recommendation: %w", err)
			}
			fmt.Printf("Enqueued recommendation job %s\n", color.CyanString(jobID.String()))
			fmt.Printf("Check it with: reelmatch job %s\n", jobID)
			return nil
		}

		session := viewstate.NewSession()
		res, err := appInstance.RecommendationService.RecommendSession(cmd.Context(), session, query)
		if err != nil {
			return fmt.Errorf("recommendation failed (%s): %w", session.State(), err)
		}
		session.SelectCategory(category)
		cards := session.Cards()

		if recommendJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Query  string           `json:"query"`
				Source string           `json:"source"`
				State  viewstate.State  `json:"state"`
				Cards  []viewstate.Card `json:"cards"`
			}{res.Query, res.Source, session.State(), cards})
		}

		fmt.Printf("%s %s %s\n", color.New(color.Bold).Sprint("Query:"), res.Query, color.HiBlackString("(%s)", res.Source))
		if len(cards) == 0 {
			fmt.Println("No matching services.")
			return nil
		}
		renderCards(cards)
		return nil
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List catalog services, optionally filtered by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}
		cards := viewstate.FilterCards(viewstate.BrowseCards(), category)
		if len(cards) == 0 {
			fmt.Println("No services in this category.")
			return nil
		}
		renderCards(cards)
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range catalog.Categories() {
			fmt.Println(c)
		}
		return nil
	},
}

// renderCards prints cards as a table; the Reason column is filled only for
// recommendation cards.
func renderCards(cards []viewstate.Card) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Category", "Reason"})
	table.SetBorder(false)
	table.SetAutoWrapText(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, c := range cards {
		reason := ""
		if c.Recommendation != nil {
			reason = c.Recommendation.Reason
		}
		table.Append([]string{c.Service.ID, c.Service.Title, c.Service.Category, reason})
	}
	table.Render()
}

func init() {
	recommendCmd.Flags().StringP("category", "c", "", "Only show results in this category")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print the result as JSON")
	recommendCmd.Flags().BoolVar(&recommendAsync, "async", false, "Enqueue a background job instead of resolving inline")
	browseCmd.Flags().StringP("category", "c", "", "Only show services in this category")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(categoriesCmd)
}
