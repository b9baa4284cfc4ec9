package main

import "github.com/ftl/cwplayer/cmd"

func main() {
	cmd.Execute()
}
