package main

import "ndvi-tools/cmd"

func main() {
	cmd.Execute()
}
