// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers reads the versions section of a fuelfinder config file
// before its other settings, so the config package can choose the
// cfgN package which understands them. The database schema version
// is kept by the migrations in the database itself.
package vers

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is a major.minor.patch version of the config file format.
// Omitted trailing components are zero, e.g., "1" reads as 1.0.0.
type Version struct {
	Major, Minor, Patch uint
}

func (v *Version) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ".")
	if len(parts) > 3 {
		return fmt.Errorf("version %q has more than three components", text)
	}
	var parsed Version
	dst := [...]*uint{&parsed.Major, &parsed.Minor, &parsed.Patch}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return fmt.Errorf("version %q: %q is not a number", text, p)
		}
		*dst[i] = uint(n)
	}
	*v = parsed
	return nil
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Readable returns an error unless a binary which knows the
// major.minor format can read a file of the v format. That requires
// the same major version and an equal or older minor version.
func (v Version) Readable(major, minor uint) error {
	if v.Major != major {
		return fmt.Errorf("incompatible major version: %d", v.Major)
	}
	if v.Minor > minor {
		return fmt.Errorf("unsupported minor version: %d", v.Minor)
	}
	return nil
}

// Config is embedded inline in the cfgN.Config structs.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions lists the format versions which are kept in a config file.
type Versions struct {
	Config Version `yaml:"config"`
}

// Load only reads the versions section of the data config file.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}
