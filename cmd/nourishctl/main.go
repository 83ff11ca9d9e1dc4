package main

import "simplynourished/internal/cli"

func main() {
	cli.Execute()
}
