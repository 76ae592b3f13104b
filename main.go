package main

import "github.com/user/notecards/cmd"

func main() {
	cmd.Execute()
}
