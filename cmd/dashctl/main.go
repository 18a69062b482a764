package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/GregMSThompson/projecthub-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/projecthub-dashboard/internal/config"
	"github.com/GregMSThompson/projecthub-dashboard/internal/layout"
	"github.com/GregMSThompson/projecthub-dashboard/internal/models"
	"github.com/GregMSThompson/projecthub-dashboard/internal/registry"
	"github.com/GregMSThompson/projecthub-dashboard/internal/store"
	"github.com/GregMSThompson/projecthub-dashboard/pkg/logger"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newApp().Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "dashctl",
		Usage: "Inspect and repair stored dashboard layouts",
		Commands: []*cli.Command{
			keyCommand(),
			parseKeyCommand(),
			defaultsCommand(),
			widgetsCommand(),
			listCommand(),
			showCommand(),
			resetCommand(),
		},
	}
}

func keyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Derive the layout key of a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tenant", Usage: "tenant domain, empty for the default tenant"},
			&cli.StringFlag{Name: "user", Required: true},
			&cli.StringFlag{Name: "role", Required: true},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			role, err := models.ParseRole(c.String("role"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Root().Writer, layout.DashboardLayoutKey(layout.KeyInput{
				TenantDomain: c.String("tenant"),
				UserID:       c.String("user"),
				Role:         role,
			}))
			return nil
		},
	}
}

func parseKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse-key",
		Usage:     "Split a layout key into tenant, user and role",
		ArgsUsage: "<key>",
		Action: func(_ context.Context, c *cli.Command) error {
			parts, err := layout.ParseDashboardLayoutKey(c.Args().First())
			if err != nil {
				return err
			}
			return printJSON(c, parts)
		},
	}
}

func defaultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "Print the default layout of a role",
		Flags: []cli.Flag{&cli.StringFlag{Name: "role", Required: true}},
		Action: func(_ context.Context, c *cli.Command) error {
			role, err := models.ParseRole(c.String("role"))
			if err != nil {
				return err
			}
			return printJSON(c, layout.DefaultDashboardLayout(registry.Default(), role, time.Now()))
		},
	}
}

func widgetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "widgets",
		Usage: "List catalog widgets, optionally for one role",
		Flags: []cli.Flag{&cli.StringFlag{Name: "role"}},
		Action: func(_ context.Context, c *cli.Command) error {
			items := registry.Default().Items()
			if c.String("role") != "" {
				role, err := models.ParseRole(c.String("role"))
				if err != nil {
					return err
				}
				items = registry.Default().WidgetsForRole(role)
			}
			for _, it := range items {
				fmt.Fprintf(c.Root().Writer, "%-24s %-22s %dx%d\n", it.Meta.ID, it.Meta.Title, it.Meta.DefaultSize.W, it.Meta.DefaultSize.H)
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored layout keys",
		Action: func(ctx context.Context, c *cli.Command) error {
			return withStore(ctx, func(ctx context.Context, s *store.DashboardStore) error {
				for _, k := range s.Keys() {
					fmt.Fprintln(c.Root().Writer, k)
				}
				return nil
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print a stored layout",
		Flags: []cli.Flag{&cli.StringFlag{Name: "key", Required: true}},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withStore(ctx, func(ctx context.Context, s *store.DashboardStore) error {
				st, ok := s.GetLayout(ctx, c.String("key"))
				if !ok {
					return fmt.Errorf("no layout stored under %q", c.String("key"))
				}
				return printJSON(c, st)
			})
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Replace a stored layout with its role's default",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Required: true},
			&cli.StringFlag{Name: "role", Usage: "defaults to the role encoded in the key"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			role, err := resetRole(c.String("key"), c.String("role"))
			if err != nil {
				return err
			}
			return withStore(ctx, func(ctx context.Context, s *store.DashboardStore) error {
				st := s.ResetLayout(ctx, c.String("key"), role)
				fmt.Fprintf(c.Root().Writer, "reset %s to %d %s widgets\n", c.String("key"), len(st.EnabledWidgetIDs), role)
				return nil
			})
		},
	}
}

func resetRole(key, flag string) (models.Role, error) {
	if flag != "" {
		return models.ParseRole(flag)
	}
	parts, err := layout.ParseDashboardLayoutKey(key)
	if err != nil {
		return "", err
	}
	return models.ParseRole(string(parts.Role))
}

// withStore opens the configured backend, runs fn and flushes before returning.
func withStore(ctx context.Context, fn func(context.Context, *store.DashboardStore) error) error {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	ctx = logger.ToContext(ctx, log)

	blobs, closeBlobs, err := bootstrap.OpenBlobStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeBlobs()

	s, err := store.NewDashboardStore(ctx, registry.Default(), blobs, store.WithBlobName(cfg.LayoutBlobName))
	if err != nil {
		return err
	}
	runErr := fn(ctx, s)

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Close(closeCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func printJSON(c *cli.Command, v any) error {
	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
