package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/groupmod/backend/internal/auth"
	"github.com/groupmod/backend/internal/config"
	"github.com/groupmod/backend/internal/roblox"
	"github.com/groupmod/backend/internal/services"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the groupmodctl command tree. Commands that talk to the
// groups API use client with the session from cfg.
func NewRootCmd(cfg *config.Config, client services.GroupsClient) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "groupmodctl",
		Short:         "Group moderation command-line tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	session := roblox.Session{Cookie: cfg.RobloxCookie}

	rootCmd.AddCommand(
		newTokenCmd(cfg),
		newAuditLogCmd(client, session),
		newBanCmd(client, session, true),
		newBanCmd(client, session, false),
		newActionTypesCmd(),
	)
	return rootCmd
}

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var operator string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator JWT for the moderation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if operator == "" {
				return fmt.Errorf("--operator is required")
			}
			token, err := auth.GenerateJWT(cfg.JWTSecret, operator, cfg.JWTExpiration)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator id placed in the token")
	return cmd
}

func newAuditLogCmd(client services.GroupsClient, session roblox.Session) *cobra.Command {
	var (
		actionType string
		userID     int64
		sortOrder  string
		limit      int
		cursor     string
	)
	cmd := &cobra.Command{
		Use:   "audit-log <group-id>",
		Short: "Print one page of a group's audit log as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID("group-id", args[0])
			if err != nil {
				return err
			}
			if !roblox.ActionType(actionType).IsKnown() && actionType != "" {
				return fmt.Errorf("unknown action type %q", actionType)
			}
			order := roblox.SortOrder(sortOrder)
			if order != roblox.SortAsc && order != roblox.SortDesc {
				return fmt.Errorf("sort must be %s or %s", roblox.SortAsc, roblox.SortDesc)
			}

			page, err := client.GetAuditLog(cmd.Context(), session, roblox.AuditLogQuery{
				Group:      groupID,
				ActionType: roblox.ActionType(actionType),
				UserID:     userID,
				SortOrder:  order,
				Limit:      limit,
				Cursor:     cursor,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().StringVar(&actionType, "action-type", "", "action type filter, empty or \"all\" merges joins and leaves")
	cmd.Flags().Int64Var(&userID, "user-id", 0, "only entries by this user")
	cmd.Flags().StringVar(&sortOrder, "sort", string(roblox.SortAsc), "Asc or Desc")
	cmd.Flags().IntVar(&limit, "limit", roblox.DefaultAuditLimit, "page size")
	cmd.Flags().StringVar(&cursor, "cursor", "", "page cursor")
	return cmd
}

func newBanCmd(client services.GroupsClient, session roblox.Session, ban bool) *cobra.Command {
	use, short, verb := "unban", "Lift a group ban", "unbanned"
	if ban {
		use, short, verb = "ban", "Ban a user from a group", "banned"
	}
	return &cobra.Command{
		Use:   use + " <group-id> <user-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID("group-id", args[0])
			if err != nil {
				return err
			}
			userID, err := parseID("user-id", args[1])
			if err != nil {
				return err
			}

			if ban {
				err = client.Ban(cmd.Context(), session, groupID, userID)
			} else {
				err = client.Unban(cmd.Context(), session, groupID, userID)
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s user %d in group %d\n", verb, userID, groupID)
			return nil
		},
	}
}

func newActionTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "action-types",
		Short: "List audit log action types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, a := range roblox.ActionTypes() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}

func parseID(name, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
