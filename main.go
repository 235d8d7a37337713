package main

import "github.com/tanq16/ytfetch/cmd"

func main() {
	cmd.Execute()
}
