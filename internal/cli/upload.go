package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hrdash/internal/api"
	"hrdash/internal/dashboard"

	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload resume files and queue them for parsing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			store, sess, err := requireSession()
			if err != nil {
				return err
			}

			files := make([]api.File, 0, len(args))
			for _, path := range args {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("cannot read %s: %w", path, err)
				}
				files = append(files, api.File{Name: filepath.Base(path), Path: path})
			}

			staging := dashboard.NewUploadController()
			accepted, rejection := staging.Add(files)
			if rejection != "" {
				return errors.New(rejection)
			}
			if accepted == 0 {
				return errors.New("nothing to upload")
			}

			n, err := client.UploadAndParse(cmd.Context(), sess.AccessToken, staging.Staged())
			if errors.Is(err, api.ErrSessionExpired) {
				return expireSession(store)
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"uploaded": n})
		},
	}
	return cmd
}
