package main

import "github.com/agentic-research/rdfmine/cmd"

func main() {
	cmd.Execute()
}
