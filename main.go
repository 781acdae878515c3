package main

import "vendorstats/cmd"

func main() {
	cmd.Execute()
}
