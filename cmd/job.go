package cmd

import (
	"encoding/json"
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/viewstate"
	"reelmatch/pkg/recommender"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var jobCmd = &cobra.Command{
	Use:   "job <job-id>",
	Short: "Show the status of a background recommendation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id %q: %w", args[0], err)
		}

		job, err := appInstance.JobService.Get(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("Job:     %s\n", job.ID)
		fmt.Printf("Status:  %s (%s)\n", jobStatusColor(job.Status), viewstate.StateForJobStatus(job.Status))
		fmt.Printf("Updated: %s\n", job.UpdatedAt.Format("2006-01-02 15:04:05"))
		if job.Error != nil {
			fmt.Printf("Error:   %s\n", color.RedString(*job.Error))
		}

		if job.Status != models.JobStatusCompleted || len(job.Result) == 0 {
			return nil
		}
		var res recommender.Resolution
		if err := json.Unmarshal(job.Result, &res); err != nil {
			return fmt.Errorf("decode job result: %w", err)
		}
		fmt.Printf("Query:   %s %s\n\n", res.Query, color.HiBlackString("(%s)", res.Source))
		renderCards(viewstate.RecommendationCards(res.Result))
		return nil
	},
}

func jobStatusColor(status string) string {
	switch status {
	case models.JobStatusCompleted:
		return color.GreenString(status)
	case models.JobStatusFailed:
		return color.RedString(status)
	default:
		return color.YellowString(status)
	}
}

func init() {
	rootCmd.AddCommand(jobCmd)
}
