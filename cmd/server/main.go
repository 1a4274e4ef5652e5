// Package main implements the Pocket Doctor server: the HTTP API for
// patients, caretakers and doctors plus the database maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pocket-doctor: %v\n", err)
		os.Exit(1)
	}
}

// newCLI builds the command tree. serve is the default action.
func newCLI() *cli.App {
	return &cli.App{
		Name:   "pocket-doctor",
		Usage:  "medication adherence API server",
		Action: serveAction,
		Flags:  serveFlags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Flags:  serveFlags(),
				Action: serveAction,
			},
			{
				Name:  "migrate",
				Usage: "manage the postgres schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "direction",
						Value: "up",
						Usage: "one of " + migrationCommandList(),
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "migration name, required with --direction create",
					},
				},
				Action: migrateAction,
			},
			{
				Name:   "seed",
				Usage:  "upsert the demo fixtures",
				Action: seedAction,
			},
			{
				Name:   "init-db",
				Usage:  "clear the demo collections and load the fixtures",
				Action: initDBAction,
			},
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "auto-migrate",
			Usage: "apply pending postgres migrations before serving",
		},
	}
}

func serveAction(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	docs, err := openStore(c.Context, cfg, log)
	if err != nil {
		return err
	}
	if c.Bool("auto-migrate") && docs.pg != nil {
		if err := runMigrations(c.Context, docs.pg, "up", "", log); err != nil {
			_ = docs.Close()
			return err
		}
	}

	app, err := newApplication(c.Context, cfg, log, docs)
	if err != nil {
		_ = docs.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(c.Context)
}

func migrateAction(c *cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	return migrate(c.Context, cfg, c.String("direction"), c.String("name"), log)
}

func seedAction(c *cli.Context) error {
	return withMaintenance(c, func(m service.MaintenanceService) error {
		result, err := m.Seed(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "seeded %d users, %d patients, %d appointments\n",
			result.Users, result.Patients, result.Appointments)
		return nil
	})
}

func initDBAction(c *cli.Context) error {
	return withMaintenance(c, func(m service.MaintenanceService) error {
		result, err := m.Initialize(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Database setup completed successfully! (%d patients, %d appointments)\n",
			result.Seeded.Patients, result.Seeded.Appointments)
		return nil
	})
}
