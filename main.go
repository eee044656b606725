package main

import "github.com/hemalatha2205/CFO-Helper/cmd"

func main() {
	cmd.Execute()
}
