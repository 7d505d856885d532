package main

import "github.com/Manu343726/lc3unit/cmd"

func main() {
	cmd.Execute()
}
