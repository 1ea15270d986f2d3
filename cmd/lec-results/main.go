package main

import "github.com/pfrederiksen/lec-results/internal/cli"

func main() {
	cli.Execute()
}
