// Command loadctl is a terminal tool for inspecting and editing a game's
// load order and active-plugin set.
package main

func main() {
	Execute()
}
