package main

import "github.com/blogward/blogward-backend/cmd"

func main() {
	cmd.Init()
}
