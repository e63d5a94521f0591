// Command gradebook keeps a class gradebook in a local SQLite file.
package main

import (
	"os"

	"github.com/roach88/gradebook/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
