// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike lower-cases s and escapes its LIKE wildcards, so it may
// be matched literally against a lower(column) expression. Queries must
// use the ESCAPE '\' clause, which is the PostgreSQL default but must
// be spelled out for sqlite.
func EscapeLike(s string) string {
	return likeEscaper.Replace(strings.ToLower(s))
}
