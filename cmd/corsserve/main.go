package main

import "github.com/corsserve/corsserve/internal/cli"

func main() {
	cli.Execute()
}
