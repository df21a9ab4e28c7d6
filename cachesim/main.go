// Command cachesim runs a trace-driven simulation of a multi-level CPU
// cache hierarchy.
package main

import "github.com/muditbhargava66/CacheSimulator-sub000/cachesim/cmd"

func main() {
	cmd.Execute()
}
