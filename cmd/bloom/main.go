// Command bloom plays celebration shows in a window, in a terminal, or
// headless for a fixed number of frames.
package main

func main() {
	Execute()
}
