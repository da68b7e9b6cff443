package main

import "github.com/rpattn/csvgate/internal/cli"

func main() {
	cli.Execute()
}
