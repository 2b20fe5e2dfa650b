// Package stdlib embeds the ferro prelude sources.
package stdlib

import _ "embed"

//go:embed prelude.ferro
var Prelude string
