package main

import "github.com/wolfitem/talent-news/cmd"

func main() {
	cmd.Execute()
}
