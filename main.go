package main

import "github.com/petrarca/debt-scanner/internal/cmd"

func main() {
	cmd.Execute()
}
