package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"employee-qbe-service/pkg/client"
	"employee-qbe-service/pkg/logger"
)

const defaultTimeout = 10 * time.Second

func newApp() *cli.App {
	return &cli.App{
		Name:  "employeectl",
		Usage: "Query the employee search service by example",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the employee service",
				Value:   "http://localhost:8080",
				EnvVars: []string{"EMPLOYEECTL_SERVER"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: defaultTimeout,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Case-insensitive substring search on first name and department",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "Part of the first name"},
					&cli.StringFlag{Name: "department", Usage: "Part of the department"},
					xlsxFlag(),
				},
				Action: searchCommand,
			},
			{
				Name:   "example",
				Usage:  "List employees exactly matching every given field",
				Flags:  append(probeFlags(), xlsxFlag()),
				Action: exampleCommand,
			},
			{
				Name:   "one",
				Usage:  "Show the single employee matching the given fields",
				Flags:  probeFlags(),
				Action: oneCommand,
			},
			{
				Name:   "count",
				Usage:  "Count employees matching the given fields",
				Flags:  probeFlags(),
				Action: countCommand,
			},
			{
				Name:   "exists",
				Usage:  "Tell whether any employee matches the given fields",
				Flags:  probeFlags(),
				Action: existsCommand,
			},
		},
	}
}

func xlsxFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "xlsx",
		Usage: "Also write the result to this Excel file",
	}
}

func probeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "id", Usage: "Employee id"},
		&cli.StringFlag{Name: "first-name", Usage: "First name"},
		&cli.StringFlag{Name: "last-name", Usage: "Last name"},
		&cli.StringFlag{Name: "department", Usage: "Department"},
		&cli.StringFlag{Name: "position", Usage: "Position"},
		&cli.Float64Flag{Name: "salary", Usage: "Salary"},
	}
}

func probeFrom(c *cli.Context) client.Employee {
	return client.Employee{
		ID:         c.Int64("id"),
		FirstName:  c.String("first-name"),
		LastName:   c.String("last-name"),
		Department: c.String("department"),
		Position:   c.String("position"),
		Salary:     c.Float64("salary"),
	}
}

func newClient(c *cli.Context) (*client.Client, error) {
	l, err := logger.NewWithConfig(logger.Config{
		Level:       c.String("log-level"),
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "employeectl",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	l.Debug("using server", zap.String("server", c.String("server")))

	return client.New(c.String("server"), c.Duration("timeout"), l), nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printList(c *cli.Context, list []client.Employee) error {
	if path := c.String("xlsx"); path != "" {
		if err := writeXLSX(path, list); err != nil {
			return err
		}
		fmt.Fprintf(c.App.ErrWriter, "wrote %d employees to %s\n", len(list), path)
	}
	return printJSON(c, list)
}

func searchCommand(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	list, err := api.Search(c.Context, c.String("first-name"), c.String("department"))
	if err != nil {
		return err
	}
	return printList(c, list)
}

func exampleCommand(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	list, err := api.FindByExample(c.Context, probeFrom(c))
	if err != nil {
		return err
	}
	return printList(c, list)
}

func oneCommand(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	e, err := api.FindOneByExample(c.Context, probeFrom(c))
	if err != nil {
		if client.IsNotFound(err) {
			return cli.Exit("no matching employee found", 3)
		}
		return err
	}
	return printJSON(c, e)
}

func countCommand(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	n, err := api.Count(c.Context, probeFrom(c))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, n)
	return err
}

func existsCommand(c *cli.Context) error {
	api, err := newClient(c)
	if err != nil {
		return err
	}
	ok, err := api.Exists(c.Context, probeFrom(c))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, ok)
	return err
}
