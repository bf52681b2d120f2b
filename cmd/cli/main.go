// nbodydiff - N-body simulation log comparison tool
//
// nbodydiff prints the per-row position and velocity differences between a
// serial N-body simulation log and a Barnes-Hut simulation log.
package main

import (
	"os"

	"github.com/ccollicutt/nbodydiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
