package main

import (
	"github.com/MCASE28/planb-tier/internal/cli"
)

func main() {
	cli.Execute()
}
