package main

import "github.com/osbuild/maintainer-tools/internal/cli"

func main() {
	cli.Execute()
}
