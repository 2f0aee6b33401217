package main

import (
	"github.com/semgate/semgate/cmd"
)

func main() {
	cmd.Execute()
}
