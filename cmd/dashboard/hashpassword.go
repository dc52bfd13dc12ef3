package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OldStager01/latency-dashboard/internal/auth"
	"github.com/OldStager01/latency-dashboard/pkg/validation"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for api.auth.password_hash",
	Long: `Reads the operator password from the first line of stdin, checks its
strength and prints the bcrypt hash to put in api.auth.password_hash
(or DASHBOARD_API_AUTH_PASSWORD_HASH).`,
	Args: cobra.NoArgs,
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return errors.New("no password given on stdin")
	}
	password := strings.TrimRight(line, "\r\n")

	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
