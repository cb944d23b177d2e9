package main

import "github.com/cmmoran/tsync/cmd"

func main() {
	cmd.Execute()
}
