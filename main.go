package main

import "github.com/chrisdamba/shelfsim/cmd"

func main() {
	cmd.Execute()
}
