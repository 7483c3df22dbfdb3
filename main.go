package main

import "github.com/northcutted/catalog-audit/cmd"

func main() {
	cmd.Execute()
}
