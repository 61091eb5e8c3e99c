package main

import (
	"burnrate/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
