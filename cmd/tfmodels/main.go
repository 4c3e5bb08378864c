package main

import "github.com/ab-obi/tf-models/internal/cli"

func main() {
	cli.Execute()
}
