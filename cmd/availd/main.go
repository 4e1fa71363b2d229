package main

import "github.com/vietddude/availability/internal/cli"

func main() {
	cli.Execute()
}
