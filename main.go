package main

import "github.com/mpapenbr/bikechallenge/cmd"

func main() {
	cmd.Execute()
}
