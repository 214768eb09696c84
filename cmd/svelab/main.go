package main

import "github.com/panyam/svlog/cmd/svelab/commands"

func main() {
	commands.Execute()
}
