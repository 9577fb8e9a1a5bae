package main

import "feedkeeper/cmd/client/cmd"

func main() {
	cmd.Execute()
}
