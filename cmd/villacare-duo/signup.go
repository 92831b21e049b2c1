package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadballoon/villacare/internal/duo"
)

func signupCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Request the investor deck by email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := duo.NewHTTPClient(serverURL, nil)
			if err := client.Signup(cmd.Context(), name, email); err != nil {
				return fmt.Errorf("signup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Thanks %s! The deck is on its way to %s.\n", name, email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
