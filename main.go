package main

import "github.com/daye-p/sizepipe/cmd"

func main() {
	cmd.Execute()
}
