package main

import "github.com/chrismacdonaldw/kattis-grind/cmd"

func main() {
	cmd.Execute()
}
