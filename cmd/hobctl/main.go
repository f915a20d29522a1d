package main

import (
	"github.com/mcoot/humanorbot/internal/cli"
)

func main() {
	cli.Execute()
}
