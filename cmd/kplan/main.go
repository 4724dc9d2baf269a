package main

import (
	"github.com/birdayz/kplan/cmd/kplan/internal/command"
)

func main() {
	command.Execute()
}
