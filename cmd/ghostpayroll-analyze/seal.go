package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghostpayroll/internal/config"
	"ghostpayroll/internal/security"
)

func newSealKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal-key",
		Short: "Seal an API key read from stdin for use in config files",
		Long: fmt.Sprintf(`Reads a secret from the first line of stdin and prints it sealed with the
passphrase in %s. Store the output as reasoning.api_key or
GHOSTPAYROLL_REASONING_API_KEY; the server opens it with the same passphrase.`, config.SecretPassphraseEnv),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase := os.Getenv(config.SecretPassphraseEnv)
			if passphrase == "" {
				return fmt.Errorf("%s is not set", config.SecretPassphraseEnv)
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no secret on stdin")
			}

			sealed, err := security.SealSecret(strings.TrimSpace(line), passphrase)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return err
		},
	}
}
