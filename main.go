package main

import "github.com/kaichen/claco/cmd/claco/commands"

func main() {
	commands.Execute()
}
