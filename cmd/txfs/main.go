package main

import (
	"os"

	"github.com/absfs/txfs/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
