package main

import (
	"os"

	"keydoctor/cmd/keydoctor/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
