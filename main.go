package main

import "github.com/railwayapp/appstack/cmd/appstack"

func main() {
	appstack.Execute()
}
