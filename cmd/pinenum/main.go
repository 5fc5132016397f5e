package main

import "github.com/OpenTraceLab/OpenTracePinEnum/cmd/pinenum/cmd"

func main() {
	cmd.Execute()
}
