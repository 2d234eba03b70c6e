package main

import "glpiboard/internal/app"

func main() {
	app.Main()
}
