package main

import "github.com/rustyeddy/swingsim/internal/cli"

func main() {
	cli.Execute()
}
