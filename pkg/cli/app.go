// Package cli implements the woe command.
package cli

import (
	"context"
	"fmt"
	"os"

	urfave "github.com/urfave/cli/v3"

	"github.com/YuminosukeSato/woekit/pkg/log"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

const (
	logLevelFlag   = "log-level"
	configFlag     = "config"
	dataFlag       = "data"
	datasourceFlag = "datasource"
	queryFlag      = "query"
	formatFlag     = "format"
	plotFlag       = "plot"
	outputFlag     = "output"
	ivFlag         = "iv"
)

// flags are built per app: urfave flags keep parse state.
func sourceFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{
			Name:     configFlag,
			Aliases:  []string{"c"},
			Usage:    "Path to the YAML encoder config",
			Required: true,
		},
		&urfave.StringFlag{
			Name:  dataFlag,
			Usage: "Path to a CSV file with a header row",
		},
		&urfave.StringFlag{
			Name:  datasourceFlag,
			Usage: "SQL datasource as driver://dsn (sqlite, postgres, mysql)",
		},
		&urfave.StringFlag{
			Name:  queryFlag,
			Usage: "SQL query selecting the training rows (requires --datasource)",
		},
	}
}

func newFormatFlag() urfave.Flag {
	return &urfave.StringFlag{
		Name:  formatFlag,
		Usage: "Output format [json, yaml, table]",
		Value: formatTable,
	}
}

// Execute runs the woe command with the process arguments.
func Execute() {
	if err := NewApp().Run(context.Background(), os.Args); err != nil {
		log.GetLogger().Error("fatal error", err)
		os.Exit(1)
	}
}

// NewApp builds the root command.
func NewApp() *urfave.Command {
	return &urfave.Command{
		Name:    "woe",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Usage:   "Weight of evidence encoding and information value reports",
		Flags: []urfave.Flag{
			&urfave.StringFlag{
				Name:  logLevelFlag,
				Usage: "Log level [debug, info, warn, error] (optional, overrides the config file)",
			},
		},
		Commands: []*urfave.Command{
			newFitCmd(),
			newTransformCmd(),
			newDescribeCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if lvl := cmd.String(logLevelFlag); lvl != "" {
				if err := log.SetupLogger(lvl); err != nil {
					return ctx, err
				}
			}
			return ctx, nil
		},
	}
}
