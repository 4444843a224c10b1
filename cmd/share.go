package cmd

import (
	"fmt"

	"reelmatch/internal/models"
	"reelmatch/internal/sharelink"
	"reelmatch/internal/viewstate"

	"github.com/spf13/cobra"
)

var shareBaseURL string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Create and open recommendation share links",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode <service-id> [reason]",
	Short: "Build a share link for a service",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		reason := ""
		if len(args) == 2 {
			reason = args[1]
		}
		base := shareBaseURL
		if base == "" {
			base = appInstance.Config.Server.BaseURL
		}
		link, err := sharelink.Encode(base, args[0], reason)
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <url-or-query>",
	Short: "Show the recommendation carried by a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := sharelink.Decode(args[0])
		if err != nil {
			return err
		}
		session, err := sharedSession(result)
		if err != nil {
			return err
		}
		fmt.Printf("Query: %s\n", session.Query())
		renderCards(session.Cards())
		return nil
	},
}

// sharedSession loads the single shared item into a fresh session.
func sharedSession(result models.RecommendationResult) (*viewstate.Session, error) {
	if len(result.Recommendations) != 1 {
		return nil, fmt.Errorf("share link must carry exactly one recommendation, got %d", len(result.Recommendations))
	}
	item := result.Recommendations[0]
	session := viewstate.NewSession()
	if !session.LoadShared(item) {
		return nil, fmt.Errorf("shared service %q is not in the catalog", item.ServiceID)
	}
	return session, nil
}

func init() {
	shareEncodeCmd.Flags().StringVar(&shareBaseURL, "base-url", "", "Base URL for the link (defaults to server.base_url)")

	shareCmd.AddCommand(shareEncodeCmd)
	shareCmd.AddCommand(shareDecodeCmd)
	rootCmd.AddCommand(shareCmd)
}
