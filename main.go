package main

import "github.com/theirongolddev/pilotbudget/cmd"

func main() {
	cmd.Execute()
}
