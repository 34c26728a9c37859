package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindgames-dev/mindgames/internal/service"
)

var jwtKeyBytes int

var genJwtKeyCmd = &cobra.Command{
	Use:   "gen-jwt-key",
	Short: "Print a random key for jwt_key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if jwtKeyBytes < 32 {
			return errors.New("key must be at least 32 bytes")
		}
		key := make([]byte, jwtKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, base64.StdEncoding.EncodeToString(key))
		fmt.Fprintln(cmd.ErrOrStderr(), "Add it to private.yaml as jwt_key or export it as MG_JWT_KEY. Keep it secret.")
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash of a password, read from stdin when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		hash, err := service.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	genJwtKeyCmd.Flags().IntVar(&jwtKeyBytes, "bytes", 48, "key length in bytes")
}
