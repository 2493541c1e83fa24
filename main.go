package main

import "github.com/theirongolddev/proplife/cmd"

func main() {
	cmd.Execute()
}
