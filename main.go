package main

import "github.com/ursisterbtw/markdown-lab-sub000/cmd"

func main() {
	cmd.Execute()
}
