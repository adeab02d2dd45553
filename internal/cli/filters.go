package cli

import (
	"errors"

	"hrdash/internal/api"

	"github.com/spf13/cobra"
)

func newFiltersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show the filterable values the service currently has",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			store, sess, err := requireSession()
			if err != nil {
				return err
			}

			vocab, err := client.FilterValues(cmd.Context(), sess.AccessToken)
			if errors.Is(err, api.ErrSessionExpired) {
				return expireSession(store)
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, vocab)
		},
	}
}
