package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"douyin-comments/internal/models"
)

// ErrCredentialInvalid is returned by verify when the server rejects the cookie
var ErrCredentialInvalid = errors.New("credential rejected")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check whether a Douyin cookie is accepted",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	env, err := environment(false)
	if err != nil {
		return err
	}

	status, err := env.Service.VerifyCredential(cmd.Context(), credential(env))
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	if status == models.CredentialInvalid {
		return ErrCredentialInvalid
	}
	return nil
}
