package main

import "github.com/jsphweid/earworm/cmd"

func main() {
	cmd.Execute()
}
