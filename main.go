package main

import "github.com/KaramelBytes/premiumlens/cmd"

func main() {
	cmd.Execute()
}
