package main

import "github.com/edelzer/memory-toolkit/internal/cli"

func main() {
	cli.Execute(cli.NewArchiveCmd())
}
