package main

import "attachment-store/cmd"

func main() {
	cmd.Execute()
}
