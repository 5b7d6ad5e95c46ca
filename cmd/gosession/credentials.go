package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errMismatch = errors.New("credential does not match")

func newHashCmd(opts *globalOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Hash a credential read from the terminal or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, done, err := buildEngine(cmd, opts, false)
			if err != nil {
				return err
			}
			defer done()

			plaintext, err := readPlaintext(cmd, "Credential: ")
			if err != nil {
				return err
			}
			hash, err := engine.HashCredential(cmd.Context(), plaintext, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 0, "work factor; 0 uses the configured default")
	return cmd
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify HASH",
		Short: "Check a credential against a stored hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, done, err := buildEngine(cmd, opts, false)
			if err != nil {
				return err
			}
			defer done()

			plaintext, err := readPlaintext(cmd, "Credential: ")
			if err != nil {
				return err
			}
			ok, err := engine.VerifyCredential(cmd.Context(), plaintext, args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "mismatch")
				return errMismatch
			}

			fmt.Fprintln(cmd.OutOrStdout(), "match")
			return nil
		},
	}
}
