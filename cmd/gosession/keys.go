package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var errNoRedis = errors.New("--redis-addr is required for key management")

func newKeysCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the signing keyring stored in Redis",
	}
	cmd.AddCommand(newKeysRotateCmd(opts))
	cmd.AddCommand(newKeysRetireCmd(opts))
	cmd.AddCommand(newKeysListCmd(opts))
	return cmd
}

func newKeysRotateCmd(opts *globalOptions) *cobra.Command {
	var (
		id     string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Add a key and make it the active signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.redisAddr == "" {
				return errNoRedis
			}
			ring, client, err := openKeyring(opts)
			if err != nil {
				return err
			}
			defer client.Close()

			if id == "" {
				id = uuid.NewString()
			}
			material := []byte(secret)
			if len(material) == 0 {
				material = make([]byte, 32)
				if _, err := rand.Read(material); err != nil {
					return fmt.Errorf("generate key: %w", err)
				}
			}

			if err := ring.Rotate(cmd.Context(), id, material); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			if secret == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "generated secret (base64):", base64.StdEncoding.EncodeToString(material))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "key id; a random UUID when empty")
	cmd.Flags().StringVar(&secret, "key-secret", "", "key material; 32 random bytes when empty")
	return cmd
}

func newKeysRetireCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retire ID",
		Short: "Remove a key; tokens it signed stop verifying",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.redisAddr == "" {
				return errNoRedis
			}
			ring, client, err := openKeyring(opts)
			if err != nil {
				return err
			}
			defer client.Close()

			return ring.Retire(cmd.Context(), args[0])
		},
	}
}

func newKeysListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List key ids, marking the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.redisAddr == "" {
				return errNoRedis
			}
			ring, client, err := openKeyring(opts)
			if err != nil {
				return err
			}
			defer client.Close()

			ids, err := ring.KeyIDs(cmd.Context())
			if err != nil {
				return err
			}
			sort.Strings(ids)
			active, err := ring.SigningKey(cmd.Context())
			if err != nil {
				active.ID = ""
			}
			for _, id := range ids {
				marker := " "
				if id == active.ID {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, id)
			}
			return nil
		},
	}
}
