// Command galleryctl inspects and browses a portfolio image directory from
// the terminal, using the same configuration as the gallery server.
package main

func main() {
	Execute()
}
