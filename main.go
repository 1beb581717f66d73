package main

import "jobads-sync/cmd"

func main() {
	cmd.Execute()
}
