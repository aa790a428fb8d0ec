package main

import (
	cmd "github.com/rohmanhakim/csp-hasher/internal/cli"
)

func main() {
	cmd.Execute()
}
