// Command xlconv resolves spreadsheet colors, converts drawing anchors
// between BIFF8 and DrawingML units and writes sample workbooks.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const configKey = "xlconv.config"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "xlconv"
	app.Usage = "Spreadsheet color, unit and border conversions"
	app.Metadata = map[string]interface{}{}
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "ini file with [theme], [sheet] and [log] sections",
			EnvVars: []string{"XLCONV_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "override the configured log level",
		},
	}
	app.Before = func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("config"))
		if err != nil {
			return err
		}
		if lvl := c.String("log-level"); lvl != "" {
			cfg.LogLevel = lvl
		}
		if err := setupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
			return err
		}
		c.App.Metadata[configKey] = cfg
		logrus.WithField("theme", cfg.Theme.Name).Debug("configuration loaded")
		return nil
	}
	app.Commands = []*cli.Command{
		cmdColor,
		cmdTint,
		cmdAnchor,
		cmdBorder,
		cmdSample,
	}
	return app
}

func config(c *cli.Context) *Config {
	if cfg, ok := c.App.Metadata[configKey].(*Config); ok {
		return cfg
	}
	return defaultConfig()
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
