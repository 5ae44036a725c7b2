// Copyright (C) 2025 Tim Bastin, l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/l3montree-dev/cdx2cyto/converter"
	"github.com/l3montree-dev/cdx2cyto/normalize"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var V = validator.New()

type RuntimeConfig struct {
	Input  string `json:"input" mapstructure:"-" validate:"required"`
	Output string `json:"output" mapstructure:"-" validate:"required"`
	Format string `json:"format" mapstructure:"format" validate:"oneof=auto json xml"`

	Vulns                  bool `json:"vulns" mapstructure:"vulns"`
	Lic                    bool `json:"lic" mapstructure:"lic"`
	ShowGroupsInNodeLabels bool `json:"showGroupsInNodeLabels" mapstructure:"showGroupsInNodeLabels"`
	GroupParents           bool `json:"groupParents" mapstructure:"groupParents"`

	VexOnly bool `json:"onlyVex" mapstructure:"only-vex" validate:"excluded_with=VdrOnly"`
	VdrOnly bool `json:"onlyVdr" mapstructure:"only-vdr"`
}

// ParseConfig reads the flag, environment and config file values bound to v and
// takes input and output from the positional arguments.
func ParseConfig(v *viper.Viper, args []string) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "could not read configuration")
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if len(args) > 1 {
		cfg.Output = args[1]
	}
	if cfg.Format == "" {
		cfg.Format = string(normalize.InputFormatAuto)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration before any file is touched.
func (c RuntimeConfig) Validate() error {
	if c.VexOnly && c.VdrOnly {
		return normalize.ErrConflictingModes
	}
	if err := V.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if err := isValidPath(c.Input); err != nil {
		return errors.Wrap(err, "invalid input file")
	}
	if err := isValidOutputPath(c.Output); err != nil {
		return errors.Wrap(err, "invalid output file")
	}
	return nil
}

func (c RuntimeConfig) InputFormat() (normalize.InputFormat, error) {
	format, err := normalize.ParseInputFormat(c.Format)
	if err != nil {
		return "", err
	}
	return format.Resolve(c.Input), nil
}

func (c RuntimeConfig) ConverterOptions() converter.Options {
	return converter.Options{
		IncludeVulnerabilities: c.Vulns,
		IncludeLicenses:        c.Lic,
		ShowGroupsInNodeLabels: c.ShowGroupsInNodeLabels,
		GroupParents:           c.GroupParents,
		VexOnly:                c.VexOnly,
		VdrOnly:                c.VdrOnly,
	}
}
