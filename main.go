package main

import (
	"github.com/maxgio92/tickprof/pkg/cmd"
)

func main() {
	cmd.Execute()
}
