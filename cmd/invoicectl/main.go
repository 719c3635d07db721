package main

import "github.com/toqasaad97/invoice/internal/cli"

func main() {
	cli.Execute()
}
