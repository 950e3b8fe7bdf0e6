package main

import "github.com/jcarreira/ramcloud/cmd"

func main() {
	cmd.Execute()
}
