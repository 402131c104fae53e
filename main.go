package main

import "github.com/theirongolddev/fintrack/cmd"

func main() {
	cmd.Execute()
}
