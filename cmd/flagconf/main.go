// Command flagconf accumulates "-c key=value" options into a configuration overlay
// and prints it on its own or merged over a configuration file.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(newApp(os.Stdout, os.Stderr, os.Getenv))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
