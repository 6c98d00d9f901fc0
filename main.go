package main

import "github.com/alexiusacademia/gocol/cmd"

func main() {
	cmd.Execute()
}
