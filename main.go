package main

import "github.com/Taichi-iskw/yt-finder/cmd"

func main() {
	cmd.Execute()
}
