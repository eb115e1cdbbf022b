package main

import "github.com/Manu343726/isasim/cmd"

func main() {
	cmd.Execute()
}
