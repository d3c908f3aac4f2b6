// jielongctl 管理命令：屏蔽词维护、角色设置、补救未完结作品
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"jielong/internal/config"
	"jielong/internal/db"
	"jielong/internal/logging"
	"jielong/internal/models"
	"jielong/internal/services"
	"jielong/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	cfg config.Config
	svc *services.Services
}

// open 按需连接数据库，token 等命令不需要
func (c *cli) open() (*services.Services, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	if err := db.Init(c.cfg); err != nil {
		return nil, err
	}
	// 命令行写入立即生效，不需要缓存
	c.svc = services.New(db.DB, services.Options{})
	return c.svc, nil
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:           "jielongctl",
		Short:         "Jielong administration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			app.cfg, _ = config.Load()
			if _, err := logging.Init(app.cfg.LogLevel); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			zap.L().Sync()
		},
	}

	root.AddCommand(
		newBlacklistCmd(app),
		newReconcileCmd(app),
		newRoleCmd(app),
		newTokenCmd(app),
	)
	return root
}

func newBlacklistCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Manage the moderation blacklist",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List blacklist entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.open()
			if err != nil {
				return err
			}
			entries, err := svc.Moderation.ListEntries(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				kind := "literal"
				if e.IsRegex {
					kind = "regex"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", e.ID, kind, e.Pattern)
			}
			return nil
		},
	}

	var isRegex bool
	add := &cobra.Command{
		Use:   "add <pattern>",
		Short: "Add a blacklist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.open()
			if err != nil {
				return err
			}
			entry, err := svc.Moderation.AddEntry(cmd.Context(), args[0], isRegex)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d\n", entry.ID)
			return nil
		},
	}
	add.Flags().BoolVar(&isRegex, "regex", false, "treat pattern as a case-insensitive regular expression")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a blacklist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			svc, err := app.open()
			if err != nil {
				return err
			}
			if err := svc.Moderation.DeleteEntry(cmd.Context(), uint(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}

func newReconcileCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Complete works whose votes reached quorum but are still open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.open()
			if err != nil {
				return err
			}
			ids, err := svc.Votes.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "completed %d work(s)\n", len(ids))
			return nil
		},
	}
}

func newRoleCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage user roles",
	}
	set := &cobra.Command{
		Use:   "set <user-id> <user|mod|admin>",
		Short: "Set a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.ParseRole(args[1])
			if string(role) != args[1] {
				return fmt.Errorf("unknown role %q", args[1])
			}
			svc, err := app.open()
			if err != nil {
				return err
			}
			if err := svc.Profiles.SetRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], role)
			return nil
		},
	}
	cmd.AddCommand(set)
	return cmd
}

// newTokenCmd 签发开发用令牌，生产环境令牌由认证服务签发
func newTokenCmd(app *cli) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a development bearer token signed with JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			tok, err := utils.IssueToken(args[0], "", ttl, []byte(app.cfg.JWTSecret))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
