package main

import "github.com/mcoot/setgame/internal/cli"

func main() {
	cli.Execute()
}
