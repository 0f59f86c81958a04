package main

import "github.com/jcdickinson/crategraph/cmd"

func main() {
	cmd.Execute()
}
