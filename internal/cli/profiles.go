package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hrdash/internal/api"
	"hrdash/internal/dashboard"
	"hrdash/internal/model"

	"github.com/spf13/cobra"
)

func newProfilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Browse and edit candidate profiles",
	}

	cmd.AddCommand(newProfilesListCmd(app))
	cmd.AddCommand(newProfilesUpdateCmd(app))

	return cmd
}

func newProfilesListCmd(app *App) *cobra.Command {
	var criteria model.FilterCriteria
	var page int
	var table bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of parsed profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			store, sess, err := requireSession()
			if err != nil {
				return err
			}
			if page < 1 {
				page = 1
			}

			res, err := client.ListProfiles(cmd.Context(), sess.AccessToken, api.ListRequest{
				FilterCriteria: criteria,
				Limit:          dashboard.ItemsPerPage,
				Offset:         (page - 1) * dashboard.ItemsPerPage,
			})
			if errors.Is(err, api.ErrSessionExpired) {
				return expireSession(store)
			}
			if err != nil {
				return err
			}

			if table {
				return writeProfilesTable(cmd, res)
			}
			return writeOut(cmd, app, map[string]any{
				"records":        res.Records,
				"total_count":    res.TotalCount,
				"filtered_count": res.FilteredCount,
				"page":           page,
				"per_page":       dashboard.ItemsPerPage,
			})
		},
	}

	cmd.Flags().StringVar(&criteria.Sector, "sector", "", "Filter by sector")
	cmd.Flags().StringVar(&criteria.Subsector, "subsector", "", "Filter by subsector")
	cmd.Flags().StringVar(&criteria.Location, "location", "", "Filter by location")
	cmd.Flags().StringVar(&criteria.Experience, "experience", "", "Filter by years of experience")
	cmd.Flags().StringVar(&criteria.Search, "search", "", "Free-text search (name or phone)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().BoolVar(&table, "table", false, "Aligned plain-text table instead of --format output")
	return cmd
}

func writeProfilesTable(cmd *cobra.Command, res api.ListResult) error {
	header := []string{"ID", "NAME", "EMAIL", "PHONE", "SECTOR", "LOCATION", "EXP"}
	rows := make([][]string, len(res.Records))
	for i, r := range res.Records {
		rows[i] = []string{
			strconv.Itoa(r.ProfileID),
			r.Name, r.Email, r.MobileNo, r.Sector, r.Location,
			strconv.Itoa(r.ExperienceYears()),
		}
	}
	if err := writeTable(cmd, header, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d records\n", res.FilteredCount, res.TotalCount)
	return nil
}

func newProfilesUpdateCmd(app *App) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "update <profile-id>",
		Short: "Update fields of one profile",
		Example: strings.TrimSpace(`
  hrdash profiles update 42 --set email=new@example.com --set location=Mumbai
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(app)
			if err != nil {
				return err
			}
			store, sess, err := requireSession()
			if err != nil {
				return err
			}

			profileID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}
			changes, err := parseSetFlags(sets)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				return errors.New("nothing to update; pass at least one --set field=value")
			}

			out, err := client.UpdateProfile(cmd.Context(), sess.AccessToken, profileID, changes)
			if errors.Is(err, api.ErrSessionExpired) {
				return expireSession(store)
			}
			if err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"profile_id": profileID,
				"status":     out.Body.Status,
			})
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field to change, as field=value (repeatable)")
	return cmd
}

// parseSetFlags turns --set field=value pairs into an update payload,
// restricted to the editable fields.
func parseSetFlags(sets []string) (map[string]any, error) {
	editable := make(map[string]bool, len(model.TrackedFields))
	for _, f := range model.TrackedFields {
		editable[f] = true
	}

	changes := make(map[string]any, len(sets))
	for _, s := range sets {
		field, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q (want field=value)", s)
		}
		field = strings.TrimSpace(field)
		if !editable[field] {
			return nil, fmt.Errorf("field %q is not editable (editable: %s)", field, strings.Join(model.TrackedFields, ", "))
		}
		changes[field] = value
	}
	return changes, nil
}
