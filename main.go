package main

import "canarycast/cmd"

func main() {
	cmd.Execute()
}
