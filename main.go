package main

import "github.com/samuelfneumann/goreplay/examples"

func main() {
	examples.PrioritizedReplay()
	examples.VecReplay()
}
