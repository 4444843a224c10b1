package main

import "reelmatch/cmd"

func main() {
	cmd.Execute()
}
