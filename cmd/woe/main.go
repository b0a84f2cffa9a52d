package main

import "github.com/YuminosukeSato/woekit/pkg/cli"

func main() {
	cli.Execute()
}
