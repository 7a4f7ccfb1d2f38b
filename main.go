package main

import "travel-story-backend/cmd"

func main() {
	cmd.Run()
}
