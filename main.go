// File: /main.go
package main

import "concesionaria-api/commands"

func main() {
	commands.Execute()
}
