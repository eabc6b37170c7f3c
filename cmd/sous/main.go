// Sous is a hands-free cooking companion.
//
// Usage:
//
//	sous list
//	sous show <recipe> [-s servings]
//	sous shop <recipe> [-s servings]
//	sous cook <recipe> [-s servings] [--voice]
//	sous timer <duration> [--label name]
package main

import (
	"os"

	"github.com/hammamikhairi/sous/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
