package main

import (
	_ "go.uber.org/automaxprocs"
	"museum-ticket/cmd"
)

func main() {
	cmd.Start()
}
