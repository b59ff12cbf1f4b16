package main

import "github.com/redhat-data-and-ai/usermgmt/internal/cli"

func main() {
	cli.Execute()
}
