package main

import "taskgroups.com/taskgroups/cmd"

func main() {
	cmd.Execute()
}
