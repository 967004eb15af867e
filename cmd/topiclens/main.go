// Package main is the entry point for the topiclens server.
package main

func main() {
	Execute()
}
