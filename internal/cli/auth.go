package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"hrdash/internal/session"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var domain string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and persist a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			if domain == "" {
				return errors.New("missing --domain")
			}
			if password == "" {
				password = os.Getenv("HRDASH_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "password: ")
				r := bufio.NewReader(cmd.InOrStdin())
				line, err := r.ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			out, err := client.Login(cmd.Context(), domain, password)
			if err != nil {
				return err
			}
			if out.Access == "" {
				msg := out.Message
				if msg == "" {
					msg = "login rejected"
				}
				return errors.New(msg)
			}

			store, err := sessionStore()
			if err != nil {
				return err
			}
			sess := session.Session{AccessToken: out.Access, Role: out.Role.Role}
			if err := store.Save(sess); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"logged_in": true,
				"domain_id": domain,
				"role":      sess.Role,
			})
		},
	}

	cmd.Flags().StringVar(&domain, "domain", envOr("HRDASH_DOMAIN", ""), "Domain id to log in as")
	cmd.Flags().StringVar(&password, "password", "", "Password (prefer HRDASH_PASSWORD or the prompt)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"logged_in": false})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's role",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, err := requireSession()
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"logged_in": true,
				"role":      sess.Role,
			})
		},
	}
}
