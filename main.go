package main

import "github.com/creativehub205/ladies-tailor-shop/cmd"

func main() {
	cmd.Execute()
}
