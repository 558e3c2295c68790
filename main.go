package main

import "github.com/jcdickinson/javadocfetch/cmd"

func main() {
	cmd.Execute()
}
