package main

import (
	"classforge/internal/cmd"
)

func main() {
	cmd.Execute()
}
