package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var savedReason string

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return savedListCmd.RunE(cmd, args)
	},
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved recommendations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		saved, err := appInstance.SavedService.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(saved) == 0 {
			fmt.Println("No saved recommendations.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Service", "Reason", "Saved At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, s := range saved {
			table.Append([]string{s.ServiceID, s.Reason, s.SavedAt.Format("2006-01-02 15:04:05")})
		}
		table.Render()
		return nil
	},
}

var savedAddCmd = &cobra.Command{
	Use:   "add <service-id>",
	Short: "Save a catalog service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		rec, existed, err := appInstance.SavedService.Save(cmd.Context(), args[0], savedReason)
		if err != nil {
			return err
		}
		if existed {
			fmt.Printf("%s %s was already saved\n", color.YellowString("Existed:"), rec.ServiceID)
			return nil
		}
		fmt.Printf("%s %s\n", color.GreenString("Saved:"), rec.ServiceID)
		return nil
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:     "delete <service-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved recommendation",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.SavedService.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", color.GreenString("Removed:"), args[0])
		return nil
	},
}

func init() {
	savedAddCmd.Flags().StringVarP(&savedReason, "reason", "r", "", "Why this service was saved")

	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedDeleteCmd)
	rootCmd.AddCommand(savedCmd)
}
