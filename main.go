package main

import "github.com/dzjyyds666/ical/cmd"

func main() {
	cmd.Execute()
}
