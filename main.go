package main

import "github.com/chrisdamba/promolift/cmd"

func main() {
	cmd.Execute()
}
