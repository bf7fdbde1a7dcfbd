package main

import (
	"strings"

	"github.com/adnsv/go-ooxml/xl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

// Config holds the settings read from the ini file.
type Config struct {
	Theme *xl.Theme

	ColumnWidth float64 // stored width, as in <col width>
	RowHeight   float64 // points

	LogLevel  string
	LogFormat string
}

func defaultConfig() *Config {
	return &Config{
		Theme:       xl.DefaultTheme(),
		ColumnWidth: xl.DefaultColumnWidth,
		RowHeight:   xl.DefaultRowHeight,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// loadConfig reads an ini file:
//
//	[theme]
//	name    = Corporate
//	accent1 = 0F6FC6
//
//	[sheet]
//	column_width = 12
//	row_height   = 18
//
//	[log]
//	level  = debug
//	format = json
//
// An empty path yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}

	sec := f.Section("theme")
	cfg.Theme.Name = sec.Key("name").MustString(cfg.Theme.Name)
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		if name == "name" {
			continue
		}
		slot, ok := xl.SlotByName(key.Name())
		if !ok {
			return nil, errors.Errorf("config %s: unknown theme slot %q", path, key.Name())
		}
		if err := cfg.Theme.SetSlot(slot, key.String()); err != nil {
			return nil, errors.Wrapf(err, "config %s: theme slot %s", path, key.Name())
		}
	}

	sec = f.Section("sheet")
	cfg.ColumnWidth = sec.Key("column_width").MustFloat64(cfg.ColumnWidth)
	cfg.RowHeight = sec.Key("row_height").MustFloat64(cfg.RowHeight)
	if cfg.ColumnWidth < 0 || cfg.RowHeight < 0 {
		return nil, errors.Errorf("config %s: negative sheet dimensions", path)
	}

	sec = f.Section("log")
	cfg.LogLevel = sec.Key("level").MustString(cfg.LogLevel)
	cfg.LogFormat = sec.Key("format").In(cfg.LogFormat, []string{"text", "json"})

	return cfg, nil
}

// Metrics returns the fixed sheet metrics described by the config.
func (c *Config) Metrics() xl.FixedMetrics {
	return xl.FixedMetrics{
		Width:  xl.ColumnWidthToEMU(c.ColumnWidth),
		Height: xl.PointsToEMU(c.RowHeight),
	}
}

func setupLogging(level, format string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	logrus.SetLevel(lvl)
	if format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}
