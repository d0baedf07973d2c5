package main

import "github.com/shopkit-dev/shopctl/cmd/shopctl/cmd"

func main() {
	cmd.Execute()
}
