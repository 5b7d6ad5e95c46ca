package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/spf13/cobra"
)

func newTokenCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and inspect session tokens",
	}
	cmd.AddCommand(newTokenIssueCmd(opts))
	cmd.AddCommand(newTokenVerifyCmd(opts))
	return cmd
}

type tokenIssueOptions struct {
	subject string
	email   string
	attrs   []string
	ttl     time.Duration
}

func newTokenIssueCmd(opts *globalOptions) *cobra.Command {
	issue := &tokenIssueOptions{}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a session token with the active key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTokenIssue(cmd, opts, issue)
		},
	}

	cmd.Flags().StringVar(&issue.subject, "sub", "", "subject claim")
	cmd.Flags().StringVar(&issue.email, "email", "", "email claim")
	cmd.Flags().StringSliceVar(&issue.attrs, "attr", nil, "extra claim as key=value (repeatable)")
	cmd.Flags().DurationVar(&issue.ttl, "ttl", 0, "token lifetime; 0 uses session.ttl")
	return cmd
}

func runTokenIssue(cmd *cobra.Command, opts *globalOptions, issue *tokenIssueOptions) error {
	if issue.subject == "" && issue.email == "" {
		return fmt.Errorf("one of --sub or --email is required")
	}

	claims := goSession.Claims{Email: issue.email}
	claims.Subject = issue.subject
	if len(issue.attrs) > 0 {
		claims.Attrs = make(map[string]string, len(issue.attrs))
		for _, kv := range issue.attrs {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --attr %q: want key=value", kv)
			}
			claims.Attrs[k] = v
		}
	}

	if issue.ttl > 0 {
		if err := cmd.Flags().Set("session.ttl", issue.ttl.String()); err != nil {
			return err
		}
	}

	engine, done, err := buildEngine(cmd, opts, true)
	if err != nil {
		return err
	}
	defer done()

	token, _, err := engine.IssueSession(cmd.Context(), claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

// tokenReport is the JSON shape printed by token verify.
type tokenReport struct {
	Status  string            `json:"status"`
	Reason  string            `json:"reason,omitempty"`
	Subject string            `json:"subject,omitempty"`
	Email   string            `json:"email,omitempty"`
	Expires *time.Time        `json:"expires,omitempty"`
	Attrs   map[string]string `json:"attrs,omitempty"`
}

func newTokenVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Resolve a token the way an incoming session cookie would be",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, done, err := buildEngine(cmd, opts, true)
			if err != nil {
				return err
			}
			defer done()

			state := engine.ResolveIdentity(cmd.Context(), map[string]string{engine.CookieName(): args[0]})

			report := tokenReport{Status: state.Status.String()}
			if state.Status == goSession.StatusRejected {
				report.Reason = state.Reason.String()
			}
			if id := state.Identity; id != nil {
				report.Subject = id.Subject
				report.Email = id.Email
				report.Attrs = id.Claims.Attrs
				if id.Claims.ExpiresAt != nil {
					exp := id.Claims.ExpiresAt.UTC()
					report.Expires = &exp
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			return state.Err()
		},
	}
}
