package main

import "github.com/frahmantamala/task-tracker/cmd"

func main() {
	cmd.Execute()
}
