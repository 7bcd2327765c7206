// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vers_test

import (
	"testing"

	"github.com/momeni/fuelfinder/pkg/adapter/config/vers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadReadsOnlyTheVersions(t *testing.T) {
	vc, err := vers.Load([]byte(`
database:
  name: fuelfinder
versions:
  config: 1.2
`))
	require.NoError(t, err)
	assert.Equal(t, vers.Version{Major: 1, Minor: 2}, vc.Versions.Config)
	assert.Equal(t, "1.2.0", vc.Versions.Config.String())

	b, err := yaml.Marshal(vc)
	require.NoError(t, err)
	assert.Equal(t, "versions:\n    config: 1.2.0\n", string(b))
}

func TestLoadRejectsMalformedVersions(t *testing.T) {
	for _, v := range []string{"1.0.0.1", "v1", "1.-1", "1..0"} {
		_, err := vers.Load([]byte("versions:\n  config: " + v + "\n"))
		assert.Error(t, err, v)
	}
}

func TestReadable(t *testing.T) {
	v := vers.Version{Major: 1, Minor: 2, Patch: 7}
	assert.NoError(t, v.Readable(1, 2))
	assert.NoError(t, v.Readable(1, 3))
	assert.EqualError(t, v.Readable(1, 1), "unsupported minor version: 2")
	assert.EqualError(t, v.Readable(2, 0), "incompatible major version: 1")
}
