package main

import "gettext-scanner/internal/cli"

func main() {
	cli.Execute()
}
