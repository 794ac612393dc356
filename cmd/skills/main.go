package main

import "github.com/devexpertio/skills/cmd/skills/commands"

func main() {
	commands.Execute()
}
