package main

import "github.com/datastax/urlquery/cmd"

func main() {
	cmd.Execute()
}
