// Command trunkline orchestrates isolated agent workspaces over a
// shared trunk repository.
package main

func main() {
	Execute()
}
