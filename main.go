package main

import "github.com/agentic-research/jmx2scenario/cmd"

func main() {
	cmd.Execute()
}
