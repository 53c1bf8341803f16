package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [link]",
	Short: "Resolve a link or share text to a video ID",
	Long: `Accepts a v.douyin.com share link (also embedded in share text), a video page URL,
a URL carrying modal_id or a bare numeric ID, and prints the video ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	env, err := environment(false)
	if err != nil {
		return err
	}

	id, err := env.Service.ResolveVideoID(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
