package main

import "github.com/piwi3910/sliceplan/cmd/sliceplan/cmd"

func main() {
	cmd.Execute()
}
