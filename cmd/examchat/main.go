package main

import "github.com/campus-labs/examchat/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
