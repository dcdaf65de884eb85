package main

import "github.com/ahaustein/cedar/cmd"

func main() {
	cmd.Execute()
}
