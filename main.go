package main

import "github.com/mahideveloper1/Video-editor-assignment/cmd"

func main() {
	cmd.Execute()
}
