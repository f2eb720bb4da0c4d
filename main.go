package main

import "github.com/offspot/offspot-config/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
