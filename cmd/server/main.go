package main

import "github.com/katariyakhushi/umbrella-customiser/cmd/server/cmd"

func main() {
	cmd.Execute()
}
