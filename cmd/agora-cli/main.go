package main

import "github.com/nfrund/agora/cmd/agora-cli/cmd"

func main() {
	cmd.Execute()
}
