package main

import "github.com/AlphaReposi/YTVV/cmd"

func main() {
	cmd.Execute()
}
