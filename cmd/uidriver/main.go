package main

import "github.com/desklab-dev/uidriver/pkg/cli"

func main() {
	cli.Execute()
}
