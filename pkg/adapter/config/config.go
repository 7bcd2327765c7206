// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the fuelweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings may be versioned and maintained by sub-packages.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be accumulated and validated
// in the relevant end-component such as a UseCase instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/momeni/fuelfinder/pkg/adapter/config/cfg1"
	"github.com/momeni/fuelfinder/pkg/adapter/config/vers"
)

// EnvFiles loads .env files into the process environment, so the FUEL_
// variables may be kept next to the config file. Missing files are
// ignored and the first file which defines a variable wins. Variables
// which were set by the process environment itself are never
// overridden, while the ones which came from the files are refreshed
// by each Load, so a reload picks up edited secrets.
type EnvFiles struct {
	paths []string

	mu    sync.Mutex
	owned map[string]bool
}

// NewEnvFiles creates an EnvFiles for the given .env file paths.
func NewEnvFiles(paths ...string) *EnvFiles {
	return &EnvFiles{paths: paths, owned: make(map[string]bool)}
}

// Load reads the .env files and updates the process environment.
func (ef *EnvFiles) Load() error {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	seen := make(map[string]bool)
	for _, p := range ef.paths {
		vars, err := godotenv.Read(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return fmt.Errorf("loading %q: %w", p, err)
		}
		for k, v := range vars {
			if seen[k] {
				continue
			}
			seen[k] = true
			if _, set := os.LookupEnv(k); set && !ef.owned[k] {
				continue
			}
			if err = os.Setenv(k, v); err != nil {
				return fmt.Errorf("setting %q: %w", k, err)
			}
			ef.owned[k] = true
		}
	}
	return nil
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
func Load(path string) (*cfg1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if vc := v.Versions.Config; vc.Major != cfg1.Major {
		return nil, fmt.Errorf("unexpected config version: %s", vc)
	}
	c, err := cfg1.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
