package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/checkbook/internal/ledger"
)

func newFamilyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Create, join and share a family account",
	}
	cmd.AddCommand(
		newFamilyCreateCommand(a),
		newFamilyJoinCommand(a),
		newFamilySignInCommand(a),
		newFamilyInviteCommand(a),
		newFamilyListCommand(a),
	)
	return cmd
}

func newFamilyCreateCommand(a *app) *cobra.Command {
	var name, email, family string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a family account and log in as its founder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				account, _, err := store.CreateFamily(cmd.Context(), name, email, family)
				if err != nil {
					return userError(err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created family %q. Share this invite:\n\n", account.Name)
				fmt.Fprintln(out, ledger.InviteText(account))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name (required)")
	cmd.Flags().StringVar(&email, "email", "", "your email (required)")
	cmd.Flags().StringVar(&family, "family", "", "family name (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("family")

	return cmd
}

func newFamilyJoinCommand(a *app) *cobra.Command {
	var name, email, familyID, passphrase string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join an existing family with its ID and passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				account, _, err := store.JoinFamily(cmd.Context(), name, email, familyID, passphrase)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Joined %q as %s (%d members)\n", account.Name, name, len(account.Members))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "your name (required)")
	cmd.Flags().StringVar(&email, "email", "", "your email (required)")
	cmd.Flags().StringVar(&familyID, "id", "", "family ID (required)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "family passphrase (required)")
	for _, f := range []string{"name", "email", "id", "passphrase"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newFamilySignInCommand(a *app) *cobra.Command {
	var email, familyID, passphrase string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Log back in as an existing member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				account, session, err := store.SignIn(cmd.Context(), familyID, passphrase, email)
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in to %q as %s\n", account.Name, account.MemberName(session.CurrentMemberID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "your member email (required)")
	cmd.Flags().StringVar(&familyID, "id", "", "family ID (required)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "family passphrase (required)")
	for _, f := range []string{"email", "id", "passphrase"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newFamilyInviteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "invite",
		Short: "Print the invite for the current family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				view, err := store.Current(cmd.Context())
				if err != nil {
					return userError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ledger.InviteText(view.Account))
				return nil
			})
		},
	}
}

func newFamilyListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List family accounts stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				ids, err := store.FamilyIDs(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "No families yet.")
					return nil
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			})
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in member and family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				view, err := store.Current(cmd.Context())
				if err != nil {
					return userError(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> in %q (%s)\n",
					view.Member.Name, view.Member.Email, view.Account.Name, view.Account.ID)
				return nil
			})
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out; the family data stays stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withLedger(func(store *ledger.Store) error {
				if err := store.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

