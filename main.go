package main

import "github.com/brodo/incbundle/cmd"

func main() {
	cmd.Execute()
}
