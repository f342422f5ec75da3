package main

import "relationship-manager/cmd"

func main() {
	cmd.Execute()
}
